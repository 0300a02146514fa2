package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
	"github.com/tashikmiddha/campusconfess-backend/internal/cache"
	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"gorm.io/gorm"
)

const collegeListCacheKey = "colleges:all"

type CollegeService struct {
	db *gorm.DB
}

func NewCollegeService(db *gorm.DB) *CollegeService {
	return &CollegeService{db: db}
}

// ResolveEmail maps a registration email to its college via the email
// domain. Unknown domains are a validation failure: only
// college-affiliated addresses may register.
func (s *CollegeService) ResolveEmail(email string) (*models.College, error) {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return nil, apperr.Validation("invalid email address")
	}
	domain := strings.ToLower(email[at+1:])

	var college models.College
	if err := s.db.Where("domain = ?", domain).First(&college).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("email domain is not a registered college; use your college email")
		}
		return nil, apperr.Internal("failed to look up college", err)
	}
	return &college, nil
}

// List returns the college directory, cached for ten minutes.
func (s *CollegeService) List(ctx context.Context) ([]models.College, error) {
	var colleges []models.College
	err := cache.Aside(ctx, collegeListCacheKey, &colleges, 10*time.Minute, func() error {
		return s.db.Order("name ASC").Find(&colleges).Error
	})
	if err != nil {
		return nil, apperr.Internal("failed to list colleges", err)
	}
	return colleges, nil
}

// Seed inserts the given colleges if the directory is empty.
func (s *CollegeService) Seed(colleges []models.College) error {
	var count int64
	if err := s.db.Model(&models.College{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.db.Create(&colleges).Error
}
