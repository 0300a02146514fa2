package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tashikmiddha/campusconfess-backend/internal/services"
)

type CollegeHandler struct {
	collegeService *services.CollegeService
}

func NewCollegeHandler(collegeService *services.CollegeService) *CollegeHandler {
	return &CollegeHandler{collegeService: collegeService}
}

func (h *CollegeHandler) List(c *fiber.Ctx) error {
	colleges, err := h.collegeService.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"colleges": colleges})
}
