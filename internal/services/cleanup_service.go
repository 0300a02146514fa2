package services

import (
	"log/slog"
	"time"

	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"gorm.io/gorm"
)

// CleanupExpiredTokens deletes refresh tokens past their expiry.
// Scheduled hourly from main.
func CleanupExpiredTokens(db *gorm.DB) {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{})
	if result.Error != nil {
		slog.Error("refresh token cleanup failed", "error", result.Error)
	} else if result.RowsAffected > 0 {
		slog.Info("refresh token cleanup completed", "deleted", result.RowsAffected)
	}
}

// CleanupSystemLogs enforces the 30-day system log retention.
func CleanupSystemLogs(db *gorm.DB) {
	cutoff := time.Now().AddDate(0, 0, -30)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error)
	} else if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}
}
