package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tashikmiddha/campusconfess-backend/internal/dto"
)

// AdminRequired must run after Identity; it checks the resolved
// viewer's admin flag.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := ViewerFromCtx(c)
		if !viewer.Authenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !viewer.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
