package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/temcen/taskhub/internal/config"
	"github.com/temcen/taskhub/internal/database"
	"github.com/temcen/taskhub/internal/handlers"
	"github.com/temcen/taskhub/internal/middleware"
	"github.com/temcen/taskhub/internal/services"
	"github.com/temcen/taskhub/internal/validation"
	"github.com/temcen/taskhub/pkg/models"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	services *services.Services
	handlers *handlers.Handlers
	router   *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	if err := validation.Register(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	app.services = services.New(cfg, app.logger, db)
	app.handlers = handlers.New(app.logger, app.services)

	app.setupRouter()

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	a.services.Stop()

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))
	router.Use(middleware.Metrics())

	// Health and metrics (no auth, no rate limit)
	router.GET("/api/health", a.handlers.Health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGate := middleware.Auth(a.services.Auth, a.services.User, a.logger)

	api := router.Group("/api/v1")
	{
		// Signup and login sit behind the tight policy only; the general
		// limiter must not charge unauthenticated credential attempts.
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimit(a.services.AuthRateLimit, a.logger))
		{
			auth.POST("/signup", a.handlers.Auth.Signup)
			auth.POST("/login", a.handlers.Auth.Login)
		}

		protected := api.Group("")
		protected.Use(middleware.RateLimit(a.services.GeneralRateLimit, a.logger))
		protected.Use(authGate)
		protected.Use(middleware.Cache(a.db.Redis, a.config.Redis.CacheTTL, a.logger))
		protected.Use(middleware.CacheInvalidation(a.db.Redis, a.logger))
		{
			me := protected.Group("/me")
			{
				me.GET("", a.handlers.Profile.Get)
				me.PUT("", a.handlers.Profile.Update)
			}

			tasks := protected.Group("/tasks")
			{
				tasks.GET("", a.handlers.Task.List)
				tasks.POST("", a.handlers.Task.Create)
				tasks.GET("/:id", a.handlers.Task.Get)
				tasks.PUT("/:id", a.handlers.Task.Update)
				tasks.DELETE("/:id", a.handlers.Task.Delete)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/stats", a.handlers.Admin.Stats)
			}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, models.Failure("Not found"))
	})

	a.router = router
}
