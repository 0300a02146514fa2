package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
	"github.com/tashikmiddha/campusconfess-backend/internal/dto"
	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
)

func TestReportCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db)
	author := createTestUser(t, db, "stateu.edu")
	reporter := createTestUser(t, db, "stateu.edu")
	post := createTestPost(t, db, author, moderation.StatusApproved)

	report, err := svc.Create(viewerFor(reporter), &dto.CreateReportRequest{
		TargetType:  models.ReportTargetPost,
		TargetID:    post.ID,
		Reason:      "spam",
		Description: "keeps reposting the same link",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ReportStatusPending, report.Status)
	assert.Equal(t, reporter.ID, report.ReporterID)
	assert.Nil(t, report.ReviewedAt)
}

func TestReportCreateRejectsUnknownReason(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db)
	author := createTestUser(t, db, "stateu.edu")
	reporter := createTestUser(t, db, "stateu.edu")
	post := createTestPost(t, db, author, moderation.StatusApproved)

	_, err := svc.Create(viewerFor(reporter), &dto.CreateReportRequest{
		TargetType: models.ReportTargetPost,
		TargetID:   post.ID,
		Reason:     "i-just-dislike-it",
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.Status(err))
}

func TestReportCreateCollegeGated(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db)
	author := createTestUser(t, db, "stateu.edu")
	outsider := createTestUser(t, db, "techinst.edu")
	post := createTestPost(t, db, author, moderation.StatusApproved)

	_, err := svc.Create(viewerFor(outsider), &dto.CreateReportRequest{
		TargetType: models.ReportTargetPost,
		TargetID:   post.ID,
		Reason:     "spam",
	})
	assert.ErrorIs(t, err, moderation.ErrCollegeMismatch)
}

func TestReportCreateBlockedReporter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db)
	author := createTestUser(t, db, "stateu.edu")
	reporter := createTestUser(t, db, "stateu.edu")
	reporter.IsBlocked = true
	require.NoError(t, db.Save(reporter).Error)
	post := createTestPost(t, db, author, moderation.StatusApproved)

	_, err := svc.Create(viewerFor(reporter), &dto.CreateReportRequest{
		TargetType: models.ReportTargetPost,
		TargetID:   post.ID,
		Reason:     "harassment",
	})
	assert.ErrorIs(t, err, moderation.ErrBlocked)
}

func TestReportCreateMissingTarget(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db)
	reporter := createTestUser(t, db, "stateu.edu")

	_, err := svc.Create(viewerFor(reporter), &dto.CreateReportRequest{
		TargetType: models.ReportTargetPost,
		TargetID:   uuid.New(),
		Reason:     "spam",
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperr.Status(err))
}

func TestReportDuplicateOpenReport(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db)
	author := createTestUser(t, db, "stateu.edu")
	reporter := createTestUser(t, db, "stateu.edu")
	post := createTestPost(t, db, author, moderation.StatusApproved)

	req := &dto.CreateReportRequest{
		TargetType: models.ReportTargetPost,
		TargetID:   post.ID,
		Reason:     "spam",
	}

	first, err := svc.Create(viewerFor(reporter), req)
	require.NoError(t, err)

	_, err = svc.Create(viewerFor(reporter), req)
	require.Error(t, err)
	assert.Equal(t, 409, apperr.Status(err))

	// Once the open report concludes, a fresh one is allowed again.
	_, err = svc.Action(first.ID, &dto.ActionReportRequest{Status: models.ReportStatusDismissed})
	require.NoError(t, err)

	_, err = svc.Create(viewerFor(reporter), req)
	assert.NoError(t, err)
}

func TestReportAction(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db)
	author := createTestUser(t, db, "stateu.edu")
	reporter := createTestUser(t, db, "stateu.edu")
	post := createTestPost(t, db, author, moderation.StatusApproved)

	report, err := svc.Create(viewerFor(reporter), &dto.CreateReportRequest{
		TargetType: models.ReportTargetPost,
		TargetID:   post.ID,
		Reason:     "harassment",
	})
	require.NoError(t, err)

	resolved, err := svc.Action(report.ID, &dto.ActionReportRequest{
		Status:     models.ReportStatusResolved,
		AdminNotes: "content rejected separately",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, resolved.Status)
	assert.NotNil(t, resolved.ReviewedAt)

	// A second pass over a concluded report conflicts.
	_, err = svc.Action(report.ID, &dto.ActionReportRequest{Status: models.ReportStatusDismissed})
	require.Error(t, err)
	assert.Equal(t, 409, apperr.Status(err))

	// Actioning a report never touches the target's moderation state.
	var fresh models.Post
	require.NoError(t, db.First(&fresh, "id = ?", post.ID).Error)
	assert.Equal(t, moderation.StatusApproved, fresh.ModerationStatus)
}

func TestReportActionNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db)

	_, err := svc.Action(uuid.New(), &dto.ActionReportRequest{Status: models.ReportStatusResolved})
	require.Error(t, err)
	assert.Equal(t, 404, apperr.Status(err))
}

func TestReportListAndMine(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db)
	author := createTestUser(t, db, "stateu.edu")
	reporter := createTestUser(t, db, "stateu.edu")
	other := createTestUser(t, db, "stateu.edu")
	postA := createTestPost(t, db, author, moderation.StatusApproved)
	postB := createTestPost(t, db, author, moderation.StatusApproved)

	_, err := svc.Create(viewerFor(reporter), &dto.CreateReportRequest{
		TargetType: models.ReportTargetPost, TargetID: postA.ID, Reason: "spam",
	})
	require.NoError(t, err)
	_, err = svc.Create(viewerFor(other), &dto.CreateReportRequest{
		TargetType: models.ReportTargetPost, TargetID: postB.ID, Reason: "other",
	})
	require.NoError(t, err)

	all, total, err := svc.List("", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	pending, _, err := svc.List(models.ReportStatusPending, 1, 20)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	mine, err := svc.Mine(viewerFor(reporter), 1, 20)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, postA.ID, mine[0].TargetID)
}
