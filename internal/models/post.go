package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Post is the primary content entity. College is copied from the
// author at creation and is immutable; every visibility decision reads
// it from the post, not the author row. ModerationStatus and
// ModerationReason are written only by the post service's transition
// paths.
type Post struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	College  string    `gorm:"size:100;not null;index" json:"college"`

	Title    string                      `gorm:"size:200;not null" json:"title"`
	Content  string                      `gorm:"type:text;not null" json:"content"`
	Category string                      `gorm:"size:50;index" json:"category"`
	Tags     datatypes.JSONSlice[string] `json:"tags"`

	ImageURL      string `gorm:"size:500" json:"image_url,omitempty"`
	ImagePublicID string `gorm:"size:255" json:"-"`

	ModerationStatus moderation.Status `gorm:"size:20;not null;default:'pending';index" json:"moderation_status"`
	ModerationReason string            `gorm:"size:500" json:"moderation_reason,omitempty"`

	IsPinned     bool `gorm:"default:false" json:"is_pinned"`
	LikeCount    int  `gorm:"default:0" json:"like_count"`
	CommentCount int  `gorm:"default:0" json:"comment_count"`

	EditedAt  *time.Time     `json:"edited_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PostLike tracks which user liked which post; one row per pair.
type PostLike struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_post_user" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *PostLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Comment is a reply on a post. Gated by the post's college, so it
// carries no college of its own.
type Comment struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
