package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
)

type CreatePostRequest struct {
	Title    string   `json:"title" form:"title" validate:"required,min=3,max=200"`
	Content  string   `json:"content" form:"content" validate:"required,min=10,max=10000"`
	Category string   `json:"category" form:"category" validate:"max=50"`
	Tags     []string `json:"tags" form:"tags" validate:"max=10,dive,max=30"`
}

type UpdatePostRequest struct {
	Title    string   `json:"title" validate:"required,min=3,max=200"`
	Content  string   `json:"content" validate:"required,min=10,max=10000"`
	Category string   `json:"category" validate:"max=50"`
	Tags     []string `json:"tags" validate:"max=10,dive,max=30"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// PostResponse is the visibility-projected view of a post. Fields the
// viewer is not entitled to are left empty and omitted from the JSON.
type PostResponse struct {
	ID        uuid.UUID `json:"id"`
	College   string    `json:"college"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`

	AuthorID uuid.UUID `json:"author_id,omitempty"`
	Content  string    `json:"content,omitempty"`
	Category string    `json:"category,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
	ImageURL string    `json:"image_url,omitempty"`

	IsPinned     bool `json:"is_pinned,omitempty"`
	LikeCount    int  `json:"like_count"`
	CommentCount int  `json:"comment_count"`

	ModerationStatus string `json:"moderation_status,omitempty"`
	ModerationReason string `json:"moderation_reason,omitempty"`
	Notice           string `json:"notice,omitempty"`

	EditedAt *time.Time `json:"edited_at,omitempty"`
}

// PostResponseFrom projects a post through its resolved visibility.
// DeniedUnderReview never reaches here; the service answers 404 first.
func PostResponseFrom(p *models.Post, vis moderation.Visibility, admin bool) PostResponse {
	resp := PostResponse{
		ID:        p.ID,
		College:   p.College,
		Title:     p.Title,
		CreatedAt: p.CreatedAt,
	}

	if vis == moderation.VisibilityDeniedCollege {
		resp.LikeCount = p.LikeCount
		resp.CommentCount = p.CommentCount
		resp.Notice = "this post belongs to another college"
		return resp
	}

	resp.AuthorID = p.AuthorID
	resp.Content = p.Content
	resp.Category = p.Category
	resp.Tags = []string(p.Tags)
	resp.ImageURL = p.ImageURL
	resp.IsPinned = p.IsPinned
	resp.LikeCount = p.LikeCount
	resp.CommentCount = p.CommentCount
	resp.EditedAt = p.EditedAt

	switch vis {
	case moderation.VisibilityOwnerPending:
		resp.ModerationStatus = string(p.ModerationStatus)
		resp.Notice = "your post is awaiting review"
	case moderation.VisibilityOwnerRejected:
		resp.ModerationStatus = string(p.ModerationStatus)
		resp.ModerationReason = p.ModerationReason
		resp.Notice = "your post was rejected; edit and resubmit to request another review"
	default:
		if admin {
			// Admins always see the true status, even where a regular
			// viewer would see a clean approved item.
			resp.ModerationStatus = string(p.ModerationStatus)
			resp.ModerationReason = p.ModerationReason
		}
	}

	return resp
}

type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func CommentResponseFrom(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
