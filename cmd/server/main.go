package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
	"github.com/tashikmiddha/campusconfess-backend/internal/cache"
	"github.com/tashikmiddha/campusconfess-backend/internal/config"
	"github.com/tashikmiddha/campusconfess-backend/internal/database"
	"github.com/tashikmiddha/campusconfess-backend/internal/handlers"
	"github.com/tashikmiddha/campusconfess-backend/internal/logging"
	"github.com/tashikmiddha/campusconfess-backend/internal/middleware"
	"github.com/tashikmiddha/campusconfess-backend/internal/models"
	"github.com/tashikmiddha/campusconfess-backend/internal/routes"
	"github.com/tashikmiddha/campusconfess-backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment")
	}

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Redis cache (optional; the service degrades to direct reads)
	cache.Init(cfg.RedisAddr)

	// Services
	collegeService := services.NewCollegeService(database.DB)
	prescreenService := services.NewPrescreenService()
	authService := services.NewAuthService(database.DB, cfg, collegeService)
	postService := services.NewPostService(database.DB, prescreenService)
	competitionService := services.NewCompetitionService(database.DB, prescreenService)
	reportService := services.NewReportService(database.DB)
	userService := services.NewUserService(database.DB)
	assetService := services.NewAssetService(cfg)

	if err := collegeService.Seed(defaultColleges()); err != nil {
		slog.Error("college seed failed", "error", err)
		os.Exit(1)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()
	postHandler := handlers.NewPostHandler(postService, assetService)
	competitionHandler := handlers.NewCompetitionHandler(competitionService, assetService)
	reportHandler := handlers.NewReportHandler(reportService)
	collegeHandler := handlers.NewCollegeHandler(collegeService)
	adminHandler := handlers.NewAdminHandler(postService, competitionService, reportService, userService)

	// Scheduled maintenance
	scheduler := cron.New()
	scheduler.AddFunc("@hourly", func() { services.CleanupExpiredTokens(database.DB) })
	scheduler.AddFunc("@daily", func() { services.CleanupSystemLogs(database.DB) })
	scheduler.Start()

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, database.DB,
		authHandler, healthHandler, postHandler, competitionHandler,
		reportHandler, collegeHandler, adminHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	scheduler.Stop()
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

// defaultColleges is the bootstrap directory. Registration only admits
// emails whose domain matches one of these rows, so a fresh deployment
// needs at least one.
func defaultColleges() []models.College {
	return []models.College{
		{Name: "State University", Domain: "stateu.edu"},
		{Name: "Tech Institute", Domain: "techinst.edu"},
		{Name: "City College", Domain: "citycollege.edu"},
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := apperr.Status(err)
	message := err.Error()

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
