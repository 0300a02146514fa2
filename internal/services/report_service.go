package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
	"github.com/tashikmiddha/campusconfess-backend/internal/dto"
	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
	"gorm.io/gorm"
)

// ReportService owns the report lifecycle: pending at creation,
// resolved or dismissed by an admin, terminal after that. Reports
// reference a post's moderation state for context but never change it.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// Create files a report against a post or competition. The reporter
// must pass the interaction gate against the target's college, and may
// hold at most one open report per target; a second attempt while one
// is pending is a conflict.
func (s *ReportService) Create(viewer moderation.Viewer, req *dto.CreateReportRequest) (*models.Report, error) {
	if !lo.Contains(models.ReportReasons, req.Reason) {
		return nil, apperr.Validation("unknown report reason: " + req.Reason)
	}

	college, err := s.targetCollege(req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}
	if err := moderation.CanInteract(viewer, college); err != nil {
		return nil, err
	}

	var existing models.Report
	err = s.db.Where(
		"reporter_id = ? AND target_type = ? AND target_id = ? AND status = ?",
		viewer.ID, req.TargetType, req.TargetID, models.ReportStatusPending,
	).First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("you already have an open report for this content")
	}

	report := models.Report{
		ReporterID:  viewer.ID,
		TargetType:  req.TargetType,
		TargetID:    req.TargetID,
		Reason:      req.Reason,
		Description: req.Description,
		Status:      models.ReportStatusPending,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, apperr.Internal("failed to create report", err)
	}
	return &report, nil
}

// List is the admin report queue, optionally filtered by status.
func (s *ReportService) List(status string, page, limit int) ([]models.Report, int64, error) {
	page, limit = normalizePage(page, limit)

	query := s.db.Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("failed to list reports", err)
	}

	var reports []models.Report
	err := query.
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to list reports", err)
	}
	return reports, total, nil
}

// Mine lists the reports the viewer filed.
func (s *ReportService) Mine(viewer moderation.Viewer, page, limit int) ([]models.Report, error) {
	page, limit = normalizePage(page, limit)
	var reports []models.Report
	err := s.db.Where("reporter_id = ?", viewer.ID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, apperr.Internal("failed to list reports", err)
	}
	return reports, nil
}

// Action concludes a pending report. The write is conditional on the
// report still being pending, so a report reviewed twice concurrently
// resolves exactly once and the loser gets a conflict.
func (s *ReportService) Action(id uuid.UUID, req *dto.ActionReportRequest) (*models.Report, error) {
	now := time.Now()
	res := s.db.Model(&models.Report{}).
		Where("id = ? AND status = ?", id, models.ReportStatusPending).
		Updates(map[string]interface{}{
			"status":      req.Status,
			"admin_notes": req.AdminNotes,
			"reviewed_at": &now,
		})
	if res.Error != nil {
		return nil, apperr.Internal("failed to update report", res.Error)
	}

	var report models.Report
	if err := s.db.First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("report not found")
		}
		return nil, apperr.Internal("failed to load report", err)
	}

	if res.RowsAffected == 0 {
		return nil, apperr.Conflict("report has already been " + report.Status)
	}
	return &report, nil
}

func (s *ReportService) targetCollege(targetType string, targetID uuid.UUID) (string, error) {
	switch targetType {
	case models.ReportTargetPost:
		var post models.Post
		if err := s.db.Select("college").First(&post, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", apperr.NotFound("post not found")
			}
			return "", apperr.Internal("failed to load report target", err)
		}
		return post.College, nil
	case models.ReportTargetCompetition:
		var comp models.Competition
		if err := s.db.Select("college").First(&comp, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", apperr.NotFound("competition not found")
			}
			return "", apperr.Internal("failed to load report target", err)
		}
		return comp.College, nil
	default:
		return "", apperr.Validation("unknown report target type: " + targetType)
	}
}
