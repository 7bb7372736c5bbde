// Command sweep closes every overdue activity once and exits. Run it from an
// external scheduler (cron, Kubernetes CronJob) alongside the API.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Huerte/AcademiQly/internal/config"
	"github.com/Huerte/AcademiQly/internal/database"
	"github.com/Huerte/AcademiQly/internal/observability"
	"github.com/Huerte/AcademiQly/internal/repository"
	"github.com/Huerte/AcademiQly/internal/service"
)

func main() {
	timeout := flag.Duration("timeout", time.Minute, "maximum time the sweep may run")
	migrate := flag.Bool("migrate", false, "run schema migrations before sweeping")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, "academiqly-sweep")

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if *migrate {
		if err := database.Migrate(db); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	activities := service.NewActivityService(
		repository.NewActivityRepository(db),
		repository.NewRoomRepository(db),
		nil,
		validator.New(validator.WithRequiredStructEnabled()),
		logger,
	)

	started := time.Now()
	closed, err := activities.Sweep(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("sweep failed")
	}

	logger.Info().Int64("closed", closed).Dur("elapsed", time.Since(started)).Msg("overdue activities closed")
}
