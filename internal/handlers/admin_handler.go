package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
	"github.com/tashikmiddha/campusconfess-backend/internal/dto"
	"github.com/tashikmiddha/campusconfess-backend/internal/middleware"
	"github.com/tashikmiddha/campusconfess-backend/internal/moderation"
	"github.com/tashikmiddha/campusconfess-backend/internal/services"
)

// AdminHandler groups the moderation panel endpoints. Every route here
// sits behind Identity + AdminRequired.
type AdminHandler struct {
	postService        *services.PostService
	competitionService *services.CompetitionService
	reportService      *services.ReportService
	userService        *services.UserService
}

func NewAdminHandler(
	postService *services.PostService,
	competitionService *services.CompetitionService,
	reportService *services.ReportService,
	userService *services.UserService,
) *AdminHandler {
	return &AdminHandler{
		postService:        postService,
		competitionService: competitionService,
		reportService:      reportService,
		userService:        userService,
	}
}

func (h *AdminHandler) PostQueue(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	page, limit := pagination(c)

	posts, total, err := h.postService.Queue(moderation.Status(c.Query("status")), page, limit)
	if err != nil {
		return err
	}

	responses := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, respondPost(viewer, &posts[i]))
	}
	return c.JSON(dto.PostListResponse{Posts: responses, Total: total, Page: page, Limit: limit})
}

func (h *AdminHandler) ModeratePost(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.ModerateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	post, err := h.postService.Moderate(c.Context(), id, decisionFrom(req.Decision), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(respondPost(viewer, post))
}

func (h *AdminHandler) PinPost(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.PinRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	post, err := h.postService.SetPinned(c.Context(), id, req.Pinned)
	if err != nil {
		return err
	}
	return c.JSON(respondPost(viewer, post))
}

func (h *AdminHandler) CompetitionQueue(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	page, limit := pagination(c)

	comps, total, err := h.competitionService.Queue(page, limit)
	if err != nil {
		return err
	}

	responses := make([]dto.CompetitionResponse, 0, len(comps))
	for i := range comps {
		responses = append(responses, respondCompetition(viewer, &comps[i]))
	}
	return c.JSON(dto.CompetitionListResponse{Competitions: responses, Total: total, Page: page, Limit: limit})
}

func (h *AdminHandler) ModerateCompetition(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.ModerateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	comp, err := h.competitionService.Moderate(id, decisionFrom(req.Decision), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(respondCompetition(viewer, comp))
}

func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	page, limit := pagination(c)

	reports, total, err := h.reportService.List(c.Query("status"), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func (h *AdminHandler) ActionReport(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.ActionReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	report, err := h.reportService.Action(id, &req)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, limit := pagination(c)

	users, total, err := h.userService.List(c.Query("college"), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *AdminHandler) BlockUser(c *fiber.Ctx) error {
	var req dto.BlockUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	user, err := h.userService.SetBlocked(req.UserID, true)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *AdminHandler) UnblockUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.SetBlocked(id, false)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func decisionFrom(s string) moderation.Decision {
	if s == "reject" {
		return moderation.DecisionReject
	}
	return moderation.DecisionApprove
}
