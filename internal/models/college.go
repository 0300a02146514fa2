package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// College maps a registration email domain to a college name.
type College struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Domain    string    `gorm:"size:100;not null;uniqueIndex" json:"domain"`
	City      string    `gorm:"size:100" json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *College) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
