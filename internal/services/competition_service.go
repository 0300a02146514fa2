package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
	"gorm.io/gorm"
)

// CompetitionService mirrors the post lifecycle for competitions:
// same college copy, same moderation transitions, votes instead of
// likes.
type CompetitionService struct {
	db        *gorm.DB
	prescreen *PrescreenService
}

func NewCompetitionService(db *gorm.DB, prescreen *PrescreenService) *CompetitionService {
	return &CompetitionService{db: db, prescreen: prescreen}
}

type CreateCompetitionInput struct {
	Title         string
	Content       string
	Category      string
	EndsAt        *time.Time
	ImageURL      string
	ImagePublicID string
}

func (s *CompetitionService) Create(viewer moderation.Viewer, in CreateCompetitionInput) (*models.Competition, error) {
	if err := moderation.CanInteract(viewer, viewer.College); err != nil {
		return nil, err
	}
	if in.EndsAt != nil && in.EndsAt.Before(time.Now()) {
		return nil, apperr.Validation("competition deadline must be in the future")
	}

	comp := models.Competition{
		AuthorID:         viewer.ID,
		College:          viewer.College,
		Title:            in.Title,
		Content:          in.Content,
		Category:         in.Category,
		EndsAt:           in.EndsAt,
		ImageURL:         in.ImageURL,
		ImagePublicID:    in.ImagePublicID,
		ModerationStatus: moderation.StatusPending,
	}

	if ok, hit := s.prescreen.Screen(in.Title + "\n" + in.Content); !ok {
		outcome, err := moderation.Flag(s.prescreen.Rationale(hit))
		if err != nil {
			return nil, err
		}
		comp.ModerationStatus = outcome.Status
		comp.ModerationReason = outcome.Reason
	}

	if err := s.db.Create(&comp).Error; err != nil {
		return nil, apperr.Internal("failed to create competition", err)
	}
	return &comp, nil
}

func (s *CompetitionService) Get(viewer moderation.Viewer, id uuid.UUID) (*models.Competition, moderation.Visibility, error) {
	var comp models.Competition
	if err := s.db.First(&comp, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperr.NotFound("competition not found")
		}
		return nil, 0, apperr.Internal("failed to load competition", err)
	}

	vis := moderation.Resolve(viewer, comp.AuthorID, comp.College, comp.ModerationStatus)
	if vis == moderation.VisibilityDeniedUnderReview {
		return nil, 0, apperr.NotFound("competition not found")
	}
	return &comp, vis, nil
}

func (s *CompetitionService) List(viewer moderation.Viewer, college string, page, limit int) ([]models.Competition, int64, error) {
	if !viewer.IsAdmin || college == "" {
		college = viewer.College
	}
	page, limit = normalizePage(page, limit)

	query := s.db.Model(&models.Competition{}).
		Where("college = ?", college).
		Where("moderation_status = ?", moderation.StatusApproved)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("failed to list competitions", err)
	}

	var comps []models.Competition
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&comps).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to list competitions", err)
	}
	return comps, total, nil
}

// ToggleVote casts or withdraws the viewer's vote. Voting closes at
// the deadline and requires the full view, like every interaction.
func (s *CompetitionService) ToggleVote(viewer moderation.Viewer, id uuid.UUID) (bool, int, error) {
	comp, vis, err := s.Get(viewer, id)
	if err != nil {
		return false, 0, err
	}
	if err := moderation.CanInteract(viewer, comp.College); err != nil {
		return false, 0, err
	}
	if vis != moderation.VisibilityFull {
		return false, 0, apperr.Forbidden("this competition cannot be voted on yet")
	}
	if comp.EndsAt != nil && comp.EndsAt.Before(time.Now()) {
		return false, 0, apperr.Conflict("this competition has ended")
	}

	voted := false
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.CompetitionVote
		if err := tx.Where("competition_id = ? AND user_id = ?", id, viewer.ID).First(&existing).Error; err == nil {
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			return tx.Model(&models.Competition{}).Where("id = ?", id).
				Update("vote_count", gorm.Expr("vote_count - 1")).Error
		}

		voted = true
		if err := tx.Create(&models.CompetitionVote{CompetitionID: id, UserID: viewer.ID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Competition{}).Where("id = ?", id).
			Update("vote_count", gorm.Expr("vote_count + 1")).Error
	})
	if err != nil {
		return false, 0, apperr.Internal("failed to toggle vote", err)
	}

	var count int
	s.db.Model(&models.Competition{}).Where("id = ?", id).Select("vote_count").Scan(&count)
	return voted, count, nil
}

// Moderate applies an admin decision with the same conditional-write
// serialization as posts.
func (s *CompetitionService) Moderate(id uuid.UUID, decision moderation.Decision, reason string) (*models.Competition, error) {
	var comp models.Competition
	if err := s.db.First(&comp, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("competition not found")
		}
		return nil, apperr.Internal("failed to load competition", err)
	}

	outcome, err := moderation.Decide(comp.ModerationStatus, decision, reason)
	if err != nil {
		return nil, err
	}
	if !outcome.Changed {
		return &comp, nil
	}

	res := s.db.Model(&models.Competition{}).
		Where("id = ? AND moderation_status = ?", id, comp.ModerationStatus).
		Updates(map[string]interface{}{
			"moderation_status": outcome.Status,
			"moderation_reason": outcome.Reason,
		})
	if res.Error != nil {
		return nil, apperr.Internal("failed to moderate competition", res.Error)
	}
	if res.RowsAffected == 0 {
		if err := s.db.First(&comp, "id = ?", id).Error; err != nil {
			return nil, apperr.NotFound("competition not found")
		}
		if comp.ModerationStatus == outcome.Status {
			return &comp, nil
		}
		return nil, apperr.Conflict("competition was moderated concurrently; refresh and retry")
	}

	comp.ModerationStatus = outcome.Status
	comp.ModerationReason = outcome.Reason
	return &comp, nil
}

func (s *CompetitionService) Queue(page, limit int) ([]models.Competition, int64, error) {
	page, limit = normalizePage(page, limit)

	query := s.db.Model(&models.Competition{}).
		Where("moderation_status IN ?", []moderation.Status{
			moderation.StatusPending, moderation.StatusFlagged,
		})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("failed to list moderation queue", err)
	}

	var comps []models.Competition
	err := query.
		Order("CASE moderation_status WHEN 'flagged' THEN 0 ELSE 1 END, created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&comps).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to list moderation queue", err)
	}
	return comps, total, nil
}
