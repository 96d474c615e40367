package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/iudanet/sportconnect/internal/client/api"
	"github.com/iudanet/sportconnect/internal/client/auth"
	"github.com/iudanet/sportconnect/internal/client/config"
	"github.com/iudanet/sportconnect/internal/client/iocli"
	"github.com/iudanet/sportconnect/internal/client/metrics"
	"github.com/iudanet/sportconnect/internal/client/session"
	"github.com/iudanet/sportconnect/internal/client/storage"
	"github.com/iudanet/sportconnect/internal/client/storage/boltdb"
	"github.com/iudanet/sportconnect/internal/client/storage/sqlite"
	"github.com/iudanet/sportconnect/internal/client/theme"
)

// App is a fully wired client: storage, token store, HTTP client, session and commands.
type App struct {
	Cli     *Cli
	storage storage.Storage
	logger  *slog.Logger
}

// Open opens the local storage and wires the client stack from cfg.
func Open(ctx context.Context, cfg config.Config, io iocli.IO, logger *slog.Logger) (*App, error) {
	st, err := OpenStorage(ctx, cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	tokens := auth.NewStore(st, logger)
	apiClient := api.NewClient(cfg.APIBaseURL, tokens,
		api.WithTimeout(cfg.APITimeout),
		api.WithLogger(logger),
		api.WithMetrics(m),
	)
	sess := session.New(apiClient, tokens,
		session.WithInactivityTimeout(cfg.InactivityTimeout),
		session.WithLogger(logger),
		session.WithMetrics(m),
	)
	prefs := theme.NewPreferences(st, logger)

	c := New(io, apiClient, tokens, sess, prefs, logger)
	c.ServeMetrics(reg, cfg.MetricsAddr)

	logger.Debug("client ready", "api", apiClient.BaseURL(), "store", cfg.StoreDriver, "path", cfg.StorePath)

	return &App{Cli: c, storage: st, logger: logger}, nil
}

// Close closes the local storage.
func (a *App) Close() error {
	if err := a.storage.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// OpenStorage opens the local database with the given driver, creating its directory.
func OpenStorage(ctx context.Context, driver, path string) (storage.Storage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	switch driver {
	case config.DriverSQLite:
		st, err := sqlite.New(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return st, nil
	case config.DriverBolt, "":
		st, err := boltdb.New(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt storage: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
