package services

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
	"github.com/tashikmiddha/campusconfess-backend/internal/config"
)

// UploadedAsset is the only thing this system stores about an image;
// the asset host owns the bytes.
type UploadedAsset struct {
	URL      string `json:"secure_url"`
	PublicID string `json:"public_id"`
}

// AssetService talks to the Cloudinary-compatible asset host. Uploads
// are synchronous call-and-wait from the request path; callers must
// destroy the asset if the surrounding database write fails, so post
// creation stays all-or-nothing.
type AssetService struct {
	cfg    *config.Config
	client *http.Client
}

func NewAssetService(cfg *config.Config) *AssetService {
	return &AssetService{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *AssetService) Enabled() bool {
	return s.cfg.AssetCloudName != "" && s.cfg.AssetAPIKey != ""
}

// Upload sends the file to the asset host and returns its URL and
// public ID.
func (s *AssetService) Upload(ctx context.Context, file *multipart.FileHeader) (*UploadedAsset, error) {
	if !s.Enabled() {
		return nil, apperr.Validation("image uploads are not configured")
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperr.Internal("failed to open uploaded file", err)
	}
	defer src.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", file.Filename)
	if err != nil {
		return nil, apperr.Internal("failed to build upload request", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, apperr.Internal("failed to read uploaded file", err)
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	writer.WriteField("api_key", s.cfg.AssetAPIKey)
	writer.WriteField("timestamp", timestamp)
	writer.WriteField("signature", s.sign("timestamp="+timestamp))
	writer.Close()

	endpoint := fmt.Sprintf("%s/%s/image/upload", s.cfg.AssetUploadURL, s.cfg.AssetCloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, apperr.Internal("failed to build upload request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperr.Internal("asset host unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, apperr.Internal("asset host rejected upload: "+string(payload), nil)
	}

	var asset UploadedAsset
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return nil, apperr.Internal("failed to decode asset host response", err)
	}
	return &asset, nil
}

// Destroy removes an uploaded asset, best effort. Used to roll back
// when a post write fails after its image was already uploaded.
func (s *AssetService) Destroy(ctx context.Context, publicID string) {
	if !s.Enabled() || publicID == "" {
		return
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("api_key", s.cfg.AssetAPIKey)
	form.Set("timestamp", timestamp)
	form.Set("signature", s.sign("public_id="+publicID+"&timestamp="+timestamp))

	endpoint := fmt.Sprintf("%s/%s/image/destroy", s.cfg.AssetUploadURL, s.cfg.AssetCloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Warn("failed to destroy orphaned asset", "public_id", publicID, "error", err)
		return
	}
	resp.Body.Close()
}

func (s *AssetService) sign(params string) string {
	h := sha1.Sum([]byte(params + s.cfg.AssetAPISecret))
	return hex.EncodeToString(h[:])
}
