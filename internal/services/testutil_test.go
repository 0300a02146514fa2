package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
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

func adminViewer(college string) moderation.Viewer {
	return moderation.Viewer{ID: uuid.New(), College: college, IsAdmin: true}
}

func createTestPost(t *testing.T, db *gorm.DB, author *models.User, status moderation.Status) *models.Post {
	t.Helper()

	post := models.Post{
		AuthorID:         author.ID,
		College:          author.College,
		Title:            "Midterm week survival tips",
		Content:          "The library basement is quietest after ten, bring snacks.",
		Category:         "academics",
		ModerationStatus: status,
	}
	if status == moderation.StatusRejected || status == moderation.StatusFlagged {
		post.ModerationReason = "test reason"
	}
	require.NoError(t, db.Create(&post).Error)
	return &post
}
