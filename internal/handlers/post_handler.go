package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
	"github.com/tashikmiddha/campusconfess-backend/internal/dto"
	"github.com/tashikmiddha/campusconfess-backend/internal/middleware"
	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
	"github.com/tashikmiddha/campusconfess-backend/internal/services"
)

type PostHandler struct {
	postService  *services.PostService
	assetService *services.AssetService
}

func NewPostHandler(postService *services.PostService, assetService *services.AssetService) *PostHandler {
	return &PostHandler{postService: postService, assetService: assetService}
}

// Create accepts JSON, or multipart/form-data when an image is
// attached. The image is uploaded to the asset host first; if the post
// write then fails the asset is destroyed, so a post either exists
// with its image reference or not at all.
func (h *PostHandler) Create(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	input := services.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		asset, err := h.assetService.Upload(c.Context(), file)
		if err != nil {
			return err
		}
		input.ImageURL = asset.URL
		input.ImagePublicID = asset.PublicID

		post, err := h.postService.Create(c.Context(), viewer, input)
		if err != nil {
			h.assetService.Destroy(c.Context(), asset.PublicID)
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(respondPost(viewer, post))
	}

	post, err := h.postService.Create(c.Context(), viewer, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(respondPost(viewer, post))
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	post, vis, err := h.postService.Get(viewer, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.PostResponseFrom(post, vis, viewer.IsAdmin))
}

func (h *PostHandler) Feed(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	page, limit := pagination(c)

	posts, total, err := h.postService.Feed(
		c.Context(), viewer,
		c.Query("college"), c.Query("category"),
		page, limit,
	)
	if err != nil {
		return err
	}

	return c.JSON(dto.PostListResponse{
		Posts: lo.Map(posts, func(p models.Post, _ int) dto.PostResponse {
			return respondPost(viewer, &p)
		}),
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (h *PostHandler) Mine(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	page, limit := pagination(c)

	posts, total, err := h.postService.Mine(viewer, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(dto.PostListResponse{
		Posts: lo.Map(posts, func(p models.Post, _ int) dto.PostResponse {
			return respondPost(viewer, &p)
		}),
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	post, err := h.postService.Update(c.Context(), viewer, id, services.UpdatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(respondPost(viewer, post))
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.postService.Delete(c.Context(), viewer, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Post deleted"})
}

func (h *PostHandler) Like(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	liked, count, err := h.postService.ToggleLike(viewer, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.LikeResponse{Liked: liked, LikeCount: count})
}

func (h *PostHandler) CreateComment(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	comment, err := h.postService.AddComment(viewer, id, strings.TrimSpace(req.Content))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CommentResponseFrom(comment))
}

func (h *PostHandler) ListComments(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}
	page, limit := pagination(c)

	comments, err := h.postService.Comments(viewer, id, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"comments": lo.Map(comments, func(cm models.Comment, _ int) dto.CommentResponse {
			return dto.CommentResponseFrom(&cm)
		}),
		"page":  page,
		"limit": limit,
	})
}

func respondPost(viewer moderation.Viewer, p *models.Post) dto.PostResponse {
	vis := moderation.Resolve(viewer, p.AuthorID, p.College, p.ModerationStatus)
	return dto.PostResponseFrom(p, vis, viewer.IsAdmin)
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid id")
	}
	return id, nil
}

func pagination(c *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	return page, limit
}
