package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
)

type CreateCompetitionRequest struct {
	Title    string     `json:"title" form:"title" validate:"required,min=3,max=200"`
	Content  string     `json:"content" form:"content" validate:"required,min=10,max=10000"`
	Category string     `json:"category" form:"category" validate:"max=50"`
	EndsAt   *time.Time `json:"ends_at" form:"ends_at"`
}

type CompetitionResponse struct {
	ID        uuid.UUID `json:"id"`
	College   string    `json:"college"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`

	AuthorID uuid.UUID  `json:"author_id,omitempty"`
	Content  string     `json:"content,omitempty"`
	Category string     `json:"category,omitempty"`
	ImageURL string     `json:"image_url,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`

	VoteCount int `json:"vote_count"`

	ModerationStatus string `json:"moderation_status,omitempty"`
	ModerationReason string `json:"moderation_reason,omitempty"`
	Notice           string `json:"notice,omitempty"`
}

func CompetitionResponseFrom(cm *models.Competition, vis moderation.Visibility, admin bool) CompetitionResponse {
	resp := CompetitionResponse{
		ID:        cm.ID,
		College:   cm.College,
		Title:     cm.Title,
		CreatedAt: cm.CreatedAt,
		VoteCount: cm.VoteCount,
	}

	if vis == moderation.VisibilityDeniedCollege {
		resp.Notice = "this competition belongs to another college"
		return resp
	}

	resp.AuthorID = cm.AuthorID
	resp.Content = cm.Content
	resp.Category = cm.Category
	resp.ImageURL = cm.ImageURL
	resp.EndsAt = cm.EndsAt

	switch vis {
	case moderation.VisibilityOwnerPending:
		resp.ModerationStatus = string(cm.ModerationStatus)
		resp.Notice = "your competition is awaiting review"
	case moderation.VisibilityOwnerRejected:
		resp.ModerationStatus = string(cm.ModerationStatus)
		resp.ModerationReason = cm.ModerationReason
		resp.Notice = "your competition was rejected; edit and resubmit to request another review"
	default:
		if admin {
			resp.ModerationStatus = string(cm.ModerationStatus)
			resp.ModerationReason = cm.ModerationReason
		}
	}

	return resp
}

type CompetitionListResponse struct {
	Competitions []CompetitionResponse `json:"competitions"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}

type VoteResponse struct {
	Voted     bool `json:"voted"`
	VoteCount int  `json:"vote_count"`
}
