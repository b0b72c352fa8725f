package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/growthplan-backend/internal/api"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/config"
	"github.com/eshaffer321/growthplan-backend/internal/jobs"
)

// RunServe runs the API server and, when enabled, the nightly scheduler.
func RunServe(cfg *config.Config, flags *ServeFlags) error {
	app, err := NewApp(context.Background(), cfg, "api")
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	logger := app.Logger

	port := cfg.Server.Port
	if flags.Port != 0 {
		port = flags.Port
	}
	server := api.NewServer(api.Config{
		Port:           port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, app.Planner, app.Store, logger)

	var scheduler *jobs.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler, err = jobs.NewScheduler(app.Planner, logger.With("component", "scheduler"), cfg.Scheduler.RedistributeCron)
		if err != nil {
			return err
		}
		scheduler.Start()
	}

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if scheduler != nil {
			if err := scheduler.Stop(ctx); err != nil {
				logger.Error("scheduler shutdown error", slog.Any("error", err))
			}
		}
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
