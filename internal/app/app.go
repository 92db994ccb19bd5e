package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gxkit/internal/config"
	"gxkit/internal/dataframe"
	"gxkit/internal/golden"
	"gxkit/internal/history"
	"gxkit/internal/infrastructure"
	"gxkit/internal/ltb"
	"gxkit/pkg/contracts"
)

// Application wires configuration, logging, telemetry and the gxkit
// components for a command-line tool.
type Application struct {
	Tool          string
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.Metrics
	Store         *ltb.Store
	Loader        *dataframe.Loader
	Harness       *golden.Harness
}

// NewApplication loads the configuration file found by config.Load and
// builds an application for the named tool.
func NewApplication(tool string) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewWithConfig(tool, cfg)
}

// NewWithConfig builds an application from an already loaded configuration
func NewWithConfig(tool string, cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logger.With(slog.String("tool", tool))

	// the log file stays open only if construction succeeds
	fail := func(err error) (*Application, error) {
		_ = infrastructure.CloseLogFile()
		return nil, err
	}

	paths, err := cfg.GetPaths()
	if err != nil {
		return fail(fmt.Errorf("failed to get paths: %w", err))
	}
	if err := paths.EnsureDirectories(); err != nil {
		return fail(fmt.Errorf("failed to ensure directories: %w", err))
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, contracts.Version, logger)
	if err != nil {
		return fail(fmt.Errorf("failed to initialize OpenTelemetry: %w", err))
	}

	metrics, err := infrastructure.NewMetrics(otelProviders.MeterProvider.Meter(infrastructure.InstrumentationName))
	if err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = otelProviders.Shutdown(shutdownCtx)
		return fail(fmt.Errorf("failed to create metrics: %w", err))
	}

	store := ltb.NewStore(paths, logger)

	app := &Application{
		Tool:          tool,
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		Store:         store,
		Loader:        dataframe.NewLoader(dataframe.StoreOpener{Store: store}, logger, metrics),
		Harness:       golden.New(cfg.Golden, paths, logger, metrics),
	}

	logger.Debug("Application initialized",
		slog.String("version", contracts.Version),
		slog.Any("table_dirs", paths.TableDirs),
		slog.String("log_file", infrastructure.LogFileName()))

	return app, nil
}

// Generator builds the version-history generator from the docs configuration
func (a *Application) Generator() (*history.Generator, error) {
	return history.NewGenerator(a.Config.Docs, a.Paths, a.Logger, a.Metrics)
}

// Shutdown flushes telemetry and closes the log file
func (a *Application) Shutdown(ctx context.Context) error {
	var firstErr error
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
