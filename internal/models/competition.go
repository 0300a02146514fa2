package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
	"gorm.io/gorm"
)

// Competition shares the post shape: same college copy, same
// moderation lifecycle, but collects votes instead of likes and may
// close at a deadline.
type Competition struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	College  string    `gorm:"size:100;not null;index" json:"college"`

	Title    string `gorm:"size:200;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Category string `gorm:"size:50;index" json:"category"`

	ImageURL      string `gorm:"size:500" json:"image_url,omitempty"`
	ImagePublicID string `gorm:"size:255" json:"-"`

	ModerationStatus moderation.Status `gorm:"size:20;not null;default:'pending';index" json:"moderation_status"`
	ModerationReason string            `gorm:"size:500" json:"moderation_reason,omitempty"`

	VoteCount int        `gorm:"default:0" json:"vote_count"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}

func (c *Competition) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CompetitionVote tracks one vote per user per competition.
type CompetitionVote struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompetitionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_competition_votes_comp_user" json:"competition_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_competition_votes_comp_user" json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func (v *CompetitionVote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
