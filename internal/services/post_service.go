package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
	"github.com/tashikmiddha/campusconfess-backend/internal/cache"
	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const feedCachePages = 3

// PostService owns every write to Post.ModerationStatus. All status
// changes go through the moderation package's transition functions and
// are persisted as conditional updates so concurrent admin decisions
// serialize instead of overwriting each other.
type PostService struct {
	db        *gorm.DB
	prescreen *PrescreenService
}

func NewPostService(db *gorm.DB, prescreen *PrescreenService) *PostService {
	return &PostService{db: db, prescreen: prescreen}
}

type CreatePostInput struct {
	Title         string
	Content       string
	Category      string
	Tags          []string
	ImageURL      string
	ImagePublicID string
}

// Create stores a new post. The college is copied from the author and
// the initial status is pending, unless the automated pre-screen hits,
// in which case the post starts flagged with the detector's rationale.
func (s *PostService) Create(ctx context.Context, viewer moderation.Viewer, in CreatePostInput) (*models.Post, error) {
	if err := moderation.CanInteract(viewer, viewer.College); err != nil {
		return nil, err
	}

	post := models.Post{
		AuthorID:         viewer.ID,
		College:          viewer.College,
		Title:            in.Title,
		Content:          in.Content,
		Category:         in.Category,
		Tags:             datatypes.NewJSONSlice(in.Tags),
		ImageURL:         in.ImageURL,
		ImagePublicID:    in.ImagePublicID,
		ModerationStatus: moderation.StatusPending,
	}

	if ok, hit := s.prescreen.Screen(in.Title + "\n" + in.Content); !ok {
		outcome, err := moderation.Flag(s.prescreen.Rationale(hit))
		if err != nil {
			return nil, err
		}
		post.ModerationStatus = outcome.Status
		post.ModerationReason = outcome.Reason
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, apperr.Internal("failed to create post", err)
	}

	return &post, nil
}

// Get loads a post and resolves its visibility for the viewer. A post
// hidden under review is reported as not found, indistinguishable from
// genuine absence.
func (s *PostService) Get(viewer moderation.Viewer, id uuid.UUID) (*models.Post, moderation.Visibility, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperr.NotFound("post not found")
		}
		return nil, 0, apperr.Internal("failed to load post", err)
	}

	vis := moderation.Resolve(viewer, post.AuthorID, post.College, post.ModerationStatus)
	if vis == moderation.VisibilityDeniedUnderReview {
		return nil, 0, apperr.NotFound("post not found")
	}

	return &post, vis, nil
}

// Feed lists approved posts for a college, pinned first. Posts under
// review are excluded at the SQL level, which keeps the hidden-content
// boundary server-side regardless of what clients render. Non-admin
// viewers always get their own college's feed.
func (s *PostService) Feed(ctx context.Context, viewer moderation.Viewer, college, category string, page, limit int) ([]models.Post, int64, error) {
	if !viewer.IsAdmin || college == "" {
		college = viewer.College
	}
	page, limit = normalizePage(page, limit)

	var posts []models.Post
	var total int64

	fetch := func() error {
		query := s.db.Model(&models.Post{}).
			Where("college = ?", college).
			Where("moderation_status = ?", moderation.StatusApproved)
		if category != "" {
			query = query.Where("category = ?", category)
		}
		if err := query.Count(&total).Error; err != nil {
			return err
		}
		return query.
			Order("is_pinned DESC, created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&posts).Error
	}

	// Cache-aside for the hot uncategorized pages only.
	if category == "" && page <= feedCachePages {
		type cachedFeed struct {
			Posts []models.Post `json:"posts"`
			Total int64         `json:"total"`
		}
		var cached cachedFeed
		err := cache.Aside(ctx, feedCacheKey(college, page), &cached, time.Minute, func() error {
			if err := fetch(); err != nil {
				return err
			}
			cached = cachedFeed{Posts: posts, Total: total}
			return nil
		})
		if err != nil {
			return nil, 0, apperr.Internal("failed to list posts", err)
		}
		return cached.Posts, cached.Total, nil
	}

	if err := fetch(); err != nil {
		return nil, 0, apperr.Internal("failed to list posts", err)
	}
	return posts, total, nil
}

// Mine lists the viewer's own posts in every moderation state, so
// authors can track pending and rejected submissions.
func (s *PostService) Mine(viewer moderation.Viewer, page, limit int) ([]models.Post, int64, error) {
	page, limit = normalizePage(page, limit)

	var posts []models.Post
	var total int64

	query := s.db.Model(&models.Post{}).Where("author_id = ?", viewer.ID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("failed to list posts", err)
	}
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to list posts", err)
	}
	return posts, total, nil
}

type UpdatePostInput struct {
	Title    string
	Content  string
	Category string
	Tags     []string
}

// Update is the author's edit-and-resubmit path. An edit always sends
// the post back to review: an approved post returns to pending, a
// rejected post gets a fresh cycle, and the prior decision reason is
// cleared. The pre-screen may flag the new content instead.
func (s *PostService) Update(ctx context.Context, viewer moderation.Viewer, id uuid.UUID, in UpdatePostInput) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, apperr.Internal("failed to load post", err)
	}

	if post.AuthorID != viewer.ID {
		return nil, apperr.Forbidden("only the author can edit a post")
	}
	if err := moderation.CanInteract(viewer, post.College); err != nil {
		return nil, err
	}

	outcome := moderation.Resubmit()
	if ok, hit := s.prescreen.Screen(in.Title + "\n" + in.Content); !ok {
		flagged, err := moderation.Flag(s.prescreen.Rationale(hit))
		if err != nil {
			return nil, err
		}
		outcome = flagged
	}

	now := time.Now()
	updates := map[string]interface{}{
		"title":             in.Title,
		"content":           in.Content,
		"category":          in.Category,
		"tags":              datatypes.NewJSONSlice(in.Tags),
		"moderation_status": outcome.Status,
		"moderation_reason": outcome.Reason,
		"edited_at":         &now,
	}
	if err := s.db.Model(&post).Updates(updates).Error; err != nil {
		return nil, apperr.Internal("failed to update post", err)
	}

	s.invalidateFeed(ctx, post.College)
	return &post, nil
}

func (s *PostService) Delete(ctx context.Context, viewer moderation.Viewer, id uuid.UUID) error {
	var post models.Post
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("post not found")
		}
		return apperr.Internal("failed to load post", err)
	}

	if post.AuthorID != viewer.ID && !viewer.IsAdmin {
		return apperr.Forbidden("only the author or an admin can delete a post")
	}

	if err := s.db.Delete(&post).Error; err != nil {
		return apperr.Internal("failed to delete post", err)
	}

	s.invalidateFeed(ctx, post.College)
	return nil
}

// ToggleLike likes or unlikes a post. Interactions require the full
// view: pending and cross-college content cannot be liked.
func (s *PostService) ToggleLike(viewer moderation.Viewer, id uuid.UUID) (bool, int, error) {
	post, vis, err := s.Get(viewer, id)
	if err != nil {
		return false, 0, err
	}
	if err := moderation.CanInteract(viewer, post.College); err != nil {
		return false, 0, err
	}
	if vis != moderation.VisibilityFull {
		return false, 0, apperr.Forbidden("this post cannot be interacted with yet")
	}

	liked := false
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.PostLike
		if err := tx.Where("post_id = ? AND user_id = ?", id, viewer.ID).First(&existing).Error; err == nil {
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			return tx.Model(&models.Post{}).Where("id = ?", id).
				Update("like_count", gorm.Expr("like_count - 1")).Error
		}

		liked = true
		if err := tx.Create(&models.PostLike{PostID: id, UserID: viewer.ID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", id).
			Update("like_count", gorm.Expr("like_count + 1")).Error
	})
	if err != nil {
		return false, 0, apperr.Internal("failed to toggle like", err)
	}

	var count int
	s.db.Model(&models.Post{}).Where("id = ?", id).Select("like_count").Scan(&count)
	return liked, count, nil
}

// AddComment creates a comment on a fully visible post.
func (s *PostService) AddComment(viewer moderation.Viewer, postID uuid.UUID, content string) (*models.Comment, error) {
	post, vis, err := s.Get(viewer, postID)
	if err != nil {
		return nil, err
	}
	if err := moderation.CanInteract(viewer, post.College); err != nil {
		return nil, err
	}
	if vis != moderation.VisibilityFull {
		return nil, apperr.Forbidden("this post cannot be commented on yet")
	}

	comment := models.Comment{
		PostID:   postID,
		AuthorID: viewer.ID,
		Content:  content,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			Update("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		return nil, apperr.Internal("failed to create comment", err)
	}
	return &comment, nil
}

func (s *PostService) Comments(viewer moderation.Viewer, postID uuid.UUID, page, limit int) ([]models.Comment, error) {
	post, vis, err := s.Get(viewer, postID)
	if err != nil {
		return nil, err
	}
	if vis == moderation.VisibilityDeniedCollege {
		return nil, apperr.Forbidden("comments are restricted to the post's college")
	}
	_ = post

	page, limit = normalizePage(page, limit)
	var comments []models.Comment
	err = s.db.Where("post_id = ?", postID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, apperr.Internal("failed to list comments", err)
	}
	return comments, nil
}

// Moderate applies an admin decision. The status write is conditional
// on the status the decision was made against, so the losing side of a
// concurrent review gets a conflict instead of silently winning.
// Repeating an identical decision is an idempotent no-op.
func (s *PostService) Moderate(ctx context.Context, id uuid.UUID, decision moderation.Decision, reason string) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, apperr.Internal("failed to load post", err)
	}

	outcome, err := moderation.Decide(post.ModerationStatus, decision, reason)
	if err != nil {
		return nil, err
	}
	if !outcome.Changed {
		return &post, nil
	}

	res := s.db.Model(&models.Post{}).
		Where("id = ? AND moderation_status = ?", id, post.ModerationStatus).
		Updates(map[string]interface{}{
			"moderation_status": outcome.Status,
			"moderation_reason": outcome.Reason,
		})
	if res.Error != nil {
		return nil, apperr.Internal("failed to moderate post", res.Error)
	}
	if res.RowsAffected == 0 {
		// Someone else moderated between our read and write.
		if err := s.db.First(&post, "id = ?", id).Error; err != nil {
			return nil, apperr.NotFound("post not found")
		}
		if post.ModerationStatus == outcome.Status {
			return &post, nil
		}
		return nil, apperr.Conflict("post was moderated concurrently; refresh and retry")
	}

	post.ModerationStatus = outcome.Status
	post.ModerationReason = outcome.Reason
	s.invalidateFeed(ctx, post.College)
	return &post, nil
}

// SetPinned is admin-only and independent of moderation status.
func (s *PostService) SetPinned(ctx context.Context, id uuid.UUID, pinned bool) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, apperr.Internal("failed to load post", err)
	}

	if err := s.db.Model(&post).Update("is_pinned", pinned).Error; err != nil {
		return nil, apperr.Internal("failed to pin post", err)
	}
	post.IsPinned = pinned
	s.invalidateFeed(ctx, post.College)
	return &post, nil
}

// Queue lists posts awaiting review for the admin panel. Flagged items
// sort first so automated hits get attention before the backlog.
func (s *PostService) Queue(status moderation.Status, page, limit int) ([]models.Post, int64, error) {
	page, limit = normalizePage(page, limit)

	query := s.db.Model(&models.Post{})
	if status != "" {
		query = query.Where("moderation_status = ?", status)
	} else {
		query = query.Where("moderation_status IN ?", []moderation.Status{
			moderation.StatusPending, moderation.StatusFlagged,
		})
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("failed to list moderation queue", err)
	}

	var posts []models.Post
	err := query.
		Order("CASE moderation_status WHEN 'flagged' THEN 0 ELSE 1 END, created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to list moderation queue", err)
	}
	return posts, total, nil
}

func (s *PostService) invalidateFeed(ctx context.Context, college string) {
	keys := make([]string, 0, feedCachePages)
	for p := 1; p <= feedCachePages; p++ {
		keys = append(keys, feedCacheKey(college, p))
	}
	cache.Invalidate(ctx, keys...)
}

func feedCacheKey(college string, page int) string {
	return fmt.Sprintf("feed:%s:p%d", college, page)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
