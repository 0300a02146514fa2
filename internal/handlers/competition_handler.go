package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
	"github.com/tashikmiddha/campusconfess-backend/internal/dto"
	"github.com/tashikmiddha/campusconfess-backend/internal/middleware"
	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
	"github.com/tashikmiddha/campusconfess-backend/internal/services"
)

type CompetitionHandler struct {
	competitionService *services.CompetitionService
	assetService       *services.AssetService
}

func NewCompetitionHandler(competitionService *services.CompetitionService, assetService *services.AssetService) *CompetitionHandler {
	return &CompetitionHandler{competitionService: competitionService, assetService: assetService}
}

func (h *CompetitionHandler) Create(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)

	var req dto.CreateCompetitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	input := services.CreateCompetitionInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		EndsAt:   req.EndsAt,
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		asset, err := h.assetService.Upload(c.Context(), file)
		if err != nil {
			return err
		}
		input.ImageURL = asset.URL
		input.ImagePublicID = asset.PublicID

		comp, err := h.competitionService.Create(viewer, input)
		if err != nil {
			h.assetService.Destroy(c.Context(), asset.PublicID)
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(respondCompetition(viewer, comp))
	}

	comp, err := h.competitionService.Create(viewer, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(respondCompetition(viewer, comp))
}

func (h *CompetitionHandler) Get(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	comp, vis, err := h.competitionService.Get(viewer, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.CompetitionResponseFrom(comp, vis, viewer.IsAdmin))
}

func (h *CompetitionHandler) List(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	page, limit := pagination(c)

	comps, total, err := h.competitionService.List(viewer, c.Query("college"), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(dto.CompetitionListResponse{
		Competitions: lo.Map(comps, func(cm models.Competition, _ int) dto.CompetitionResponse {
			return respondCompetition(viewer, &cm)
		}),
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (h *CompetitionHandler) Vote(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	voted, count, err := h.competitionService.ToggleVote(viewer, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.VoteResponse{Voted: voted, VoteCount: count})
}

func respondCompetition(viewer moderation.Viewer, cm *models.Competition) dto.CompetitionResponse {
	vis := moderation.Resolve(viewer, cm.AuthorID, cm.College, cm.ModerationStatus)
	return dto.CompetitionResponseFrom(cm, vis, viewer.IsAdmin)
}
