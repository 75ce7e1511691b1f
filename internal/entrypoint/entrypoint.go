// Package entrypoint wires the data layer together and runs the
// maintenance daemon: database, task queue workers and the cron
// scheduler, with signal-driven graceful shutdown.
package entrypoint

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/cantata-audio/cantata/internal/config"
	"github.com/cantata-audio/cantata/internal/database"
	dbactivity "github.com/cantata-audio/cantata/internal/database/activity"
	"github.com/cantata-audio/cantata/internal/database/recommendations"
	"github.com/cantata-audio/cantata/internal/logging"
	"github.com/cantata-audio/cantata/internal/scheduler"
	"github.com/cantata-audio/cantata/internal/tasks"
)

// Run starts the maintenance daemon and blocks until SIGINT or
// SIGTERM. Connection failures are fatal at startup; nothing here
// retries them.
func Run(cfg *config.Config, version string) {
	log := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	log.Info().Str("version", version).Msg("starting cantata")

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}()

	log.Info().
		Str("driver", cfg.Database.Driver).
		Msg("database connected")

	activityRepo := dbactivity.NewRepository(db.DB)
	recsRepo := recommendations.NewRepository(db.DB, cfg.Recommendations.MaxTracks)

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var maintenance *scheduler.Maintenance

	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		queueDBPath := cfg.Tasks.DBPath
		if queueDBPath == "" {
			queueDBPath = tasks.QueueDBPath(cfg.Database.Driver, cfg.Database.URL)
		}

		taskClient, err = tasks.NewClient(queueDBPath, taskCfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize task queue")
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error().Err(err).Msg("error closing task client")
			}
		}()

		taskClient.Register(
			tasks.NewCleanupActivityQueue(activityRepo, log),
			tasks.NewCleanupRecommendationsQueue(recsRepo, log),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		if cfg.Maintenance.Enabled {
			maintenance = scheduler.NewMaintenance(
				taskClient,
				cfg.Maintenance,
				cfg.Activity,
				cfg.Recommendations,
				log,
			)
			if err := maintenance.Start(context.Background()); err != nil {
				log.Fatal().Err(err).Msg("failed to start maintenance scheduler")
			}
		} else {
			log.Info().Msg("maintenance scheduler disabled")
		}
	} else {
		log.Info().Msg("task queue disabled, maintenance will not run")
	}

	waitForShutdown(cfg, log, maintenance, taskClient, taskCtxCancel)
}

func waitForShutdown(cfg *config.Config, log zerolog.Logger, maintenance *scheduler.Maintenance, taskClient *tasks.Client, taskCtxCancel context.CancelFunc) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	log.Info().
		Str("signal", sig.String()).
		Dur("timeout", timeout).
		Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if maintenance != nil {
		maintenance.Stop()
	}
	if taskClient != nil {
		taskClient.Stop(ctx)
	}
	if taskCtxCancel != nil {
		taskCtxCancel()
	}

	log.Info().Msg("daemon exiting")
}
