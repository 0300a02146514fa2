package handlers

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
	"github.com/tashikmiddha/campusconfess-backend/internal/database"
	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// setupTestApp builds a fiber app with the same error mapping the
// server uses, so handler tests observe real status codes.
func setupTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperr.Status(err)).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})
}

// asViewer stands in for the JWT + Identity middleware chain.
func asViewer(v moderation.Viewer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("viewer", v)
		return c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB, college string) *models.User {
	t.Helper()

	user := models.User{
		Email:    uuid.NewString() + "@" + college,
		Password: "hashed",
		Username: "u_" + uuid.NewString()[:8],
		College:  college,
		Role:     "user",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func viewerFor(u *models.User) moderation.Viewer {
	return moderation.Viewer{
		ID:        u.ID,
		College:   u.College,
		IsAdmin:   u.IsAdmin(),
		IsBlocked: u.IsBlocked,
	}
}
