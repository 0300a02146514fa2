package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"gorm.io/gorm"
)

// UserService holds the admin-side account operations.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// SetBlocked blocks or unblocks an account. A blocked account fails
// every interaction gate check on its next request; tokens stay valid
// but grant nothing.
func (s *UserService) SetBlocked(userID uuid.UUID, blocked bool) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to load user", err)
	}

	if user.IsBlocked == blocked {
		return &user, nil
	}

	if err := s.db.Model(&user).Update("is_blocked", blocked).Error; err != nil {
		return nil, apperr.Internal("failed to update user", err)
	}
	user.IsBlocked = blocked
	return &user, nil
}

// List pages through accounts for the admin panel.
func (s *UserService) List(college string, page, limit int) ([]models.User, int64, error) {
	page, limit = normalizePage(page, limit)

	query := s.db.Model(&models.User{})
	if college != "" {
		query = query.Where("college = ?", college)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("failed to list users", err)
	}

	var users []models.User
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to list users", err)
	}
	return users, total, nil
}
