package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
	"github.com/tashikmiddha/campusconfess-backend/internal/dto"
	"github.com/tashikmiddha/campusconfess-backend/internal/middleware"
	"github.com/tashikmiddha/campusconfess-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	resp, err := h.authService.Refresh(&req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.Logout(&req); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Logged out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)
	resp, err := h.authService.Me(viewer.ID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	viewer := middleware.ViewerFromCtx(c)

	var req dto.DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	if err := h.authService.DeleteAccount(viewer.ID, req.Password); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Account deleted"})
}
