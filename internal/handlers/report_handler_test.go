package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
	"github.com/tashikmiddha/campusconfess-backend/internal/services"
	"gorm.io/gorm"
)

func setupReportApp(t *testing.T, db *gorm.DB, viewer moderation.Viewer) *fiber.App {
	t.Helper()

	handler := NewReportHandler(services.NewReportService(db))

	app := setupTestApp()
	app.Use(asViewer(viewer))
	app.Post("/reports", handler.Create)
	app.Get("/reports/mine", handler.Mine)
	return app
}

func postReport(t *testing.T, app *fiber.App, body map[string]string) int {
	t.Helper()

	b, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/reports", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestReportHandlerCreate(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "stateu.edu")
	reporter := createTestUser(t, db, "stateu.edu")

	post := models.Post{
		AuthorID:         author.ID,
		College:          author.College,
		Title:            "Questionable confession",
		Content:          "Somebody is going to report this one for sure.",
		ModerationStatus: moderation.StatusApproved,
	}
	require.NoError(t, db.Create(&post).Error)

	app := setupReportApp(t, db, viewerFor(reporter))

	t.Run("valid report", func(t *testing.T) {
		code := postReport(t, app, map[string]string{
			"target_type": "post",
			"target_id":   post.ID.String(),
			"reason":      "harassment",
		})
		assert.Equal(t, fiber.StatusCreated, code)
	})

	t.Run("duplicate open report conflicts", func(t *testing.T) {
		code := postReport(t, app, map[string]string{
			"target_type": "post",
			"target_id":   post.ID.String(),
			"reason":      "harassment",
		})
		assert.Equal(t, fiber.StatusConflict, code)
	})

	t.Run("invalid target type", func(t *testing.T) {
		code := postReport(t, app, map[string]string{
			"target_type": "user",
			"target_id":   post.ID.String(),
			"reason":      "spam",
		})
		assert.Equal(t, fiber.StatusBadRequest, code)
	})

	t.Run("mine lists the filed report", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/reports/mine", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			Reports []map[string]any `json:"reports"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Len(t, body.Reports, 1)
	})
}

func TestReportHandlerCrossCollege(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "stateu.edu")
	outsider := createTestUser(t, db, "techinst.edu")

	post := models.Post{
		AuthorID:         author.ID,
		College:          author.College,
		Title:            "Out of reach",
		Content:          "Accounts from other colleges cannot act on this.",
		ModerationStatus: moderation.StatusApproved,
	}
	require.NoError(t, db.Create(&post).Error)

	app := setupReportApp(t, db, viewerFor(outsider))
	code := postReport(t, app, map[string]string{
		"target_type": "post",
		"target_id":   post.ID.String(),
		"reason":      "spam",
	})
	assert.Equal(t, fiber.StatusForbidden, code)
}
