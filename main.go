package main

import (
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"userdir-backend/internal/api"
	"userdir-backend/internal/auth"
	"userdir-backend/internal/config"
	"userdir-backend/internal/database"
	"userdir-backend/internal/store"
)

func main() {
	// A local .env is optional; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := database.Open(database.Config{Path: cfg.AuditDBPath}); err != nil {
		logger.Fatal("failed to open audit database", zap.Error(err))
	}
	defer database.Close()

	users := store.NewUserStore()
	sessions := store.NewSessionStore(cfg.SessionTTL, cfg.EnforceSessionExpiry)
	hasher := auth.NewHasher(cfg.Hasher)
	authSvc := auth.NewService(users, sessions, hasher, logger)
	limiter := auth.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}))

	api.RegisterRoutes(e, api.Deps{
		Users:             users,
		Sessions:          sessions,
		Auth:              authSvc,
		Limiter:           limiter,
		Audit:             database.NewAuditRepo(),
		Logger:            logger,
		SessionTTL:        cfg.SessionTTL,
		EnforceOwnerMatch: cfg.EnforceOwnerMatch,
	})

	logger.Info("starting userdir backend",
		zap.String("port", cfg.Port),
		zap.String("hasher", cfg.Hasher),
		zap.Bool("enforce_session_expiry", cfg.EnforceSessionExpiry),
	)
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
