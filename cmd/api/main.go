package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/teamboard-api/internal/config"
	"github.com/noah-isme/teamboard-api/internal/database"
	"github.com/noah-isme/teamboard-api/internal/handler"
	"github.com/noah-isme/teamboard-api/internal/middleware"
	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/repository"
	"github.com/noah-isme/teamboard-api/internal/router"
	"github.com/noah-isme/teamboard-api/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger = logger.With().Str("service", cfg.AppName).Logger()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db, models.All()...); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	checks := map[string]handler.Pinger{
		"database": handler.PingFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer cache.Close()
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return cache.Ping(ctx).Err()
		})
	}

	var publisher service.ActivityPublisher
	if cfg.NATSURL != "" {
		conn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer conn.Drain()
		publisher = conn
	}

	validate := service.NewValidator()

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, publisher, cfg.NATSSubject, logger)
	authService := service.NewAuthService(userRepo, validate, activityService, service.AuthConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.JWTTTL,
		Issuer: cfg.JWTIssuer,
	}, logger)
	userService := service.NewUserService(userRepo, validate, activityService, logger)
	projectService := service.NewProjectService(projectRepo, userRepo, validate, activityService, logger)
	taskService := service.NewTaskService(taskRepo, projectRepo, userRepo, validate, activityService, logger)
	dashboardService := service.NewDashboardService(userRepo, projectRepo, taskRepo, cache, cfg.DashboardCacheTTL, logger)
	feedService := service.NewActivityFeedService(taskRepo, projectRepo, userRepo, service.FeedOptions{
		Window: cfg.ActivityWindow,
		Recent: cfg.ActivityRecentWindow,
		Limit:  cfg.ActivityDefaultLimit,
	}, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.AllowOrigins,
		AccessLog:    !cfg.IsProduction(),
	})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		UserHandler:         handler.NewUserHandler(userService, logger),
		ProjectHandler:      handler.NewProjectHandler(projectService, logger),
		TaskHandler:         handler.NewTaskHandler(taskService, logger),
		DashboardHandler:    handler.NewDashboardHandler(dashboardService, logger),
		ActivityFeedHandler: handler.NewActivityFeedHandler(feedService, logger),
		ActivityLogHandler:  handler.NewActivityLogHandler(activityService, logger),
		Authenticate:        middleware.Authenticate(cfg.JWTSecret, authService, logger),
		LoginLimiter:        middleware.RateLimit("login", cfg.LoginRateLimit, time.Minute),
		HealthChecks:        checks,
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Msg("http server listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
