package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tashikmiddha/campusconfess-backend/internal/config"
	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
	"github.com/tashikmiddha/campusconfess-backend/internal/services"
	"gorm.io/gorm"
)

func setupPostApp(t *testing.T, db *gorm.DB, viewer moderation.Viewer) *fiber.App {
	t.Helper()

	postService := services.NewPostService(db, services.NewPrescreenService())
	assetService := services.NewAssetService(&config.Config{})
	handler := NewPostHandler(postService, assetService)

	app := setupTestApp()
	app.Use(asViewer(viewer))
	app.Post("/posts", handler.Create)
	app.Get("/posts/:id", handler.Get)
	app.Get("/posts", handler.Feed)
	return app
}

func TestPostHandlerCreate(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "stateu.edu")
	app := setupPostApp(t, db, viewerFor(author))

	tests := []struct {
		name           string
		body           map[string]any
		expectedStatus int
	}{
		{
			name: "valid post",
			body: map[string]any{
				"title":   "Lost my student ID near the gym",
				"content": "If anyone picked up a blue lanyard please drop it at the front desk.",
			},
			expectedStatus: fiber.StatusCreated,
		},
		{
			name: "title too short",
			body: map[string]any{
				"title":   "Hi",
				"content": "Content long enough to pass the length validation easily.",
			},
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name: "missing content",
			body: map[string]any{
				"title": "A title with no body",
			},
			expectedStatus: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest("POST", "/posts", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == fiber.StatusCreated {
				var created map[string]any
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
				assert.Equal(t, "pending", created["moderation_status"])
				assert.NotEmpty(t, created["notice"])
			}
		})
	}
}

func TestPostHandlerGetHidesPendingFromOthers(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "stateu.edu")
	classmate := createTestUser(t, db, "stateu.edu")

	post := models.Post{
		AuthorID:         author.ID,
		College:          author.College,
		Title:            "Waiting on review",
		Content:          "This body must stay invisible to everyone but the author.",
		ModerationStatus: moderation.StatusPending,
	}
	require.NoError(t, db.Create(&post).Error)

	t.Run("author sees it with a notice", func(t *testing.T) {
		app := setupPostApp(t, db, viewerFor(author))
		resp, err := app.Test(httptest.NewRequest("GET", "/posts/"+post.ID.String(), nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "pending", body["moderation_status"])
	})

	t.Run("classmate gets a plain 404", func(t *testing.T) {
		app := setupPostApp(t, db, viewerFor(classmate))
		resp, err := app.Test(httptest.NewRequest("GET", "/posts/"+post.ID.String(), nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestPostHandlerCrossCollegeMetadataOnly(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "stateu.edu")
	outsider := createTestUser(t, db, "techinst.edu")

	post := models.Post{
		AuthorID:         author.ID,
		College:          author.College,
		Title:            "Campus event this friday",
		Content:          "Full details only visible inside the college boundary.",
		ModerationStatus: moderation.StatusApproved,
	}
	require.NoError(t, db.Create(&post).Error)

	app := setupPostApp(t, db, viewerFor(outsider))
	resp, err := app.Test(httptest.NewRequest("GET", "/posts/"+post.ID.String(), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Campus event this friday", body["title"])
	assert.Empty(t, body["content"])
	assert.NotEmpty(t, body["notice"])
}

func TestPostHandlerFeed(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "stateu.edu")
	reader := createTestUser(t, db, "stateu.edu")

	approved := models.Post{
		AuthorID:         author.ID,
		College:          author.College,
		Title:            "Visible post",
		Content:          "Approved content shows up in the college feed.",
		ModerationStatus: moderation.StatusApproved,
	}
	pending := models.Post{
		AuthorID:         author.ID,
		College:          author.College,
		Title:            "Invisible post",
		Content:          "Pending content must never appear in anyone's feed.",
		ModerationStatus: moderation.StatusPending,
	}
	require.NoError(t, db.Create(&approved).Error)
	require.NoError(t, db.Create(&pending).Error)

	app := setupPostApp(t, db, viewerFor(reader))
	resp, err := app.Test(httptest.NewRequest("GET", "/posts", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Posts []map[string]any `json:"posts"`
		Total int64            `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(1), body.Total)
	require.Len(t, body.Posts, 1)
	assert.Equal(t, "Visible post", body.Posts[0]["title"])
}
