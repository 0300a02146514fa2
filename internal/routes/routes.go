package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/tashikmiddha/campusconfess-backend/internal/config"
	"github.com/tashikmiddha/campusconfess-backend/internal/handlers"
	"github.com/tashikmiddha/campusconfess-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	postHandler *handlers.PostHandler,
	competitionHandler *handlers.CompetitionHandler,
	reportHandler *handlers.ReportHandler,
	collegeHandler *handlers.CollegeHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health
	api.Get("/health", healthHandler.Check)

	// College directory (public, read-only)
	api.Get("/colleges", collegeHandler.List)

	// Auth endpoints are public but carry a stricter per-IP limit.
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Everything below requires a valid token plus a live account row.
	// Identity re-resolves the user each request so blocks and role
	// changes are effective immediately.
	protected := api.Group("", middleware.JWTProtected(cfg), middleware.Identity(db, cfg))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)
	protected.Delete("/auth/account", authHandler.DeleteAccount)

	// Posts
	protected.Post("/posts", postHandler.Create)
	protected.Get("/posts", postHandler.Feed)
	protected.Get("/posts/mine", postHandler.Mine)
	protected.Get("/posts/:id", postHandler.Get)
	protected.Put("/posts/:id", postHandler.Update)
	protected.Delete("/posts/:id", postHandler.Delete)
	protected.Post("/posts/:id/like", postHandler.Like)
	protected.Post("/posts/:id/comments", postHandler.CreateComment)
	protected.Get("/posts/:id/comments", postHandler.ListComments)

	// Competitions
	protected.Post("/competitions", competitionHandler.Create)
	protected.Get("/competitions", competitionHandler.List)
	protected.Get("/competitions/:id", competitionHandler.Get)
	protected.Post("/competitions/:id/vote", competitionHandler.Vote)

	// Reports
	protected.Post("/reports", reportHandler.Create)
	protected.Get("/reports/mine", reportHandler.Mine)

	// Admin moderation panel
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.Identity(db, cfg), middleware.AdminRequired())
	admin.Get("/posts/queue", adminHandler.PostQueue)
	admin.Put("/posts/:id/moderate", adminHandler.ModeratePost)
	admin.Put("/posts/:id/pin", adminHandler.PinPost)
	admin.Get("/competitions/queue", adminHandler.CompetitionQueue)
	admin.Put("/competitions/:id/moderate", adminHandler.ModerateCompetition)
	admin.Get("/reports", adminHandler.ListReports)
	admin.Put("/reports/:id", adminHandler.ActionReport)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Post("/users/block", adminHandler.BlockUser)
	admin.Delete("/users/:id/block", adminHandler.UnblockUser)
}
