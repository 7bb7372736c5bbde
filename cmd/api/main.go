package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Huerte/AcademiQly/internal/config"
	"github.com/Huerte/AcademiQly/internal/database"
	"github.com/Huerte/AcademiQly/internal/handler"
	"github.com/Huerte/AcademiQly/internal/middleware"
	"github.com/Huerte/AcademiQly/internal/observability"
	"github.com/Huerte/AcademiQly/internal/repository"
	"github.com/Huerte/AcademiQly/internal/router"
	"github.com/Huerte/AcademiQly/internal/service"
	cloud "github.com/Huerte/AcademiQly/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, "academiqly-api")
	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis not configured: report caching and redis fan-out disabled")
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to nats")
	}
	if natsConn != nil {
		defer natsConn.Drain()
	}

	// Left as a nil interface when uploads are not configured.
	var storage service.FileStorage
	if cfg.UploadsEnabled() {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create cloudinary client")
		}
		storage = uploader
	} else {
		logger.Warn().Msg("cloudinary not configured: file submissions disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	roomRepo := repository.NewRoomRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	notificationService := service.NewNotificationService(
		repository.NewNotificationRepository(db),
		roomRepo,
		activityRepo,
		submissionRepo,
		redisClient,
		natsConn,
		cfg.NotificationChannel,
		logger,
	)
	auditService := service.NewAuditService(repository.NewAuditLogRepository(db), validate, logger)
	activityService := service.NewActivityService(activityRepo, roomRepo, notificationService, validate, logger)
	submissionService := service.NewSubmissionService(activityRepo, roomRepo, submissionRepo, validate, service.SubmissionServiceConfig{
		Storage:          storage,
		Notifier:         notificationService,
		DefaultThreshold: cfg.DefaultPassing,
		MaxUploadMB:      cfg.UploadMaxMB,
	}, logger)
	gradingService := service.NewGradingService(submissionRepo, validate, auditService, notificationService, cfg.DefaultPassing, logger)
	teacherDashboard := service.NewTeacherDashboardService(activityService, roomRepo, activityRepo, submissionRepo, validate, cfg.DefaultPassing, logger)
	studentDashboard := service.NewStudentDashboardService(activityService, roomRepo, activityRepo, submissionRepo, validate, cfg.DefaultPassing, logger)
	analyticsService := service.NewAnalyticsService(repository.NewAnalyticsRepository(db), activityService, redisClient, cfg.AnalyticsCacheTTL, cfg.DefaultPassing, logger)
	exportService := service.NewExportService(roomRepo, submissionRepo, cfg.DefaultPassing, logger)
	roleResolver := service.NewRoleResolver(repository.NewTeacherRepository(db), repository.NewStudentRepository(db))

	healthChecks := map[string]handler.Pinger{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.UploadMaxMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSOrigins,
		AccessLog:    cfg.AppEnv == "development",
	})
	router.Register(app, cfg, router.Dependencies{
		ActivityHandler:     handler.NewActivityHandler(activityService, logger),
		SubmissionHandler:   handler.NewSubmissionHandler(submissionService, gradingService, logger),
		DashboardHandler:    handler.NewDashboardHandler(teacherDashboard, studentDashboard, logger),
		AnalyticsHandler:    handler.NewAnalyticsHandler(analyticsService, logger),
		ExportHandler:       handler.NewExportHandler(exportService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger),
		AuditHandler:        handler.NewAuditHandler(auditService, logger),
		HealthChecks:        healthChecks,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
		RoleMiddleware:      middleware.ResolveRole(roleResolver, logger),
		SubmissionRateLimit: middleware.RateLimit("submissions", cfg.SubmissionRateLimit, time.Minute),
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Str("env", cfg.AppEnv).Msg("starting http server")
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
