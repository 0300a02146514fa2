package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tashikmiddha/campusconfess-backend/internal/config"
	"github.com/tashikmiddha/campusconfess-backend/internal/dto"
	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
	"gorm.io/gorm"
)

const viewerKey = "viewer"

// Identity resolves the caller's account into a moderation.Viewer and
// stores it in the request context. It re-reads the user row on every
// request so role changes and blocks take effect immediately, without
// waiting for token expiry.
func Identity(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid claims",
			})
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid subject claim",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Account no longer exists",
			})
		}

		c.Locals(viewerKey, moderation.Viewer{
			ID:        user.ID,
			College:   user.College,
			IsAdmin:   user.IsAdmin() || contains(adminEmails, user.Email),
			IsBlocked: user.IsBlocked,
		})
		return c.Next()
	}
}

// ViewerFromCtx returns the resolved viewer, or the zero (anonymous)
// viewer when the request never passed Identity.
func ViewerFromCtx(c *fiber.Ctx) moderation.Viewer {
	if v, ok := c.Locals(viewerKey).(moderation.Viewer); ok {
		return v
	}
	return moderation.Viewer{}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
