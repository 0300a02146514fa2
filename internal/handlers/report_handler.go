package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
	"github.com/tashikmiddha/campusconfess-backend/internal/dto"
	"github.com/tashikmiddha/campusconfess-backend/internal/middleware"
	"github.com/tashikmiddha/campusconfess-backend/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	report, err := h.reportService.Create(viewer, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ReportHandler) Mine(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	page, limit := pagination(c)

	reports, err := h.reportService.Mine(viewer, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"reports": reports,
		"page":    page,
		"limit":   limit,
	})
}
