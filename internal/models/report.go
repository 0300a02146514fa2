package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReportTargetPost        = "post"
	ReportTargetCompetition = "competition"
)

const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// ReportReasons is the accepted reason enum for new reports.
var ReportReasons = []string{
	"spam", "harassment", "hate-speech", "violence",
	"misinformation", "inappropriate", "other",
}

// Report is a user complaint against a post or competition. Its
// lifecycle (pending → resolved|dismissed) is independent of the
// target's moderation status; resolving a report never moderates the
// target by itself.
type Report struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ReporterID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"reporter_id"`
	TargetType  string     `gorm:"size:20;not null" json:"target_type"`
	TargetID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"target_id"`
	Reason      string     `gorm:"size:50;not null" json:"reason"`
	Description string     `gorm:"size:500" json:"description,omitempty"`
	Status      string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AdminNotes  string     `gorm:"size:1000" json:"admin_notes,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Reporter User `gorm:"foreignKey:ReporterID" json:"-"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
