package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eshaffer321/growthplan-backend/internal/application/service"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/config"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/lock"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/logging"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/storage"
)

// App is the wiring shared by every command.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   *storage.Storage
	Planner *service.PlannerService

	closeLocker func() error
}

// LoadConfig reads the config file, falling back to the environment.
func LoadConfig(flags CommonFlags) *config.Config {
	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)
	if flags.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	return cfg
}

// NewApp opens storage and the period locker and builds the planner.
// system names the logger, e.g. "api".
func NewApp(ctx context.Context, cfg *config.Config, system string) (*App, error) {
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, system)

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	locker, closeLocker, err := lock.New(ctx, cfg.Redis)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if cfg.Redis.Enabled {
		logger.Info("using redis period locks", "address", cfg.Redis.Address)
	}

	planner := service.NewPlannerService(store, locker, logger.With("component", "planner"), service.Options{
		DefaultCurrency:         cfg.Planning.DefaultCurrency,
		RedistributeConcurrency: cfg.Planning.RedistributeConcurrency,
	})

	return &App{
		Config:      cfg,
		Logger:      logger,
		Store:       store,
		Planner:     planner,
		closeLocker: closeLocker,
	}, nil
}

// Close releases the locker connection and the database.
func (a *App) Close() error {
	return errors.Join(a.closeLocker(), a.Store.Close())
}
