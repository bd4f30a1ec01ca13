package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/quester/internal/config"
	"github.com/aretw0/quester/pkg/adapters/file"
	"github.com/aretw0/quester/pkg/adapters/loam"
	"github.com/aretw0/quester/pkg/adapters/memory"
	"github.com/aretw0/quester/pkg/adapters/redis"
	"github.com/aretw0/quester/pkg/adapters/sqlite"
	"github.com/aretw0/quester/pkg/editor"
	"github.com/aretw0/quester/pkg/observability"
	"github.com/aretw0/quester/pkg/persistence/middleware"
	"github.com/aretw0/quester/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// App bundles the components the commands share, built from one Config.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    ports.GameStore
	Editor   *editor.Manager
	Registry *prometheus.Registry // nil when metrics are disabled

	closers []func() error
}

// NewApp opens the configured store and builds the editor on top of it.
// Extra hooks are chained after the logging and metrics hooks.
func NewApp(cfg *config.Config, logger *slog.Logger, extra ...observability.Hooks) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	store, locker, err := app.openStore()
	if err != nil {
		return nil, err
	}

	mws := []middleware.Middleware{middleware.NewLoggingMiddleware(logger)}
	hooks := []observability.Hooks{observability.LoggingHooks(logger)}
	if cfg.Server.Metrics {
		app.Registry = prometheus.NewRegistry()
		m, err := observability.NewMetrics(app.Registry)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		hooks = append(hooks, m.Hooks())

		sm, err := middleware.NewStoreMetrics(app.Registry, string(cfg.Store.Driver))
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to register store metrics: %w", err)
		}
		mws = append(mws, middleware.NewMetricsMiddleware(sm))
	}
	hooks = append(hooks, extra...)
	store = middleware.Wrap(store, mws...)
	app.Store = store

	opts := []editor.Option{
		editor.WithLogger(logger),
		editor.WithHooks(observability.Chain(hooks...)),
		editor.WithLockTTL(cfg.Store.LockTTL),
	}
	if locker != nil {
		opts = append(opts, editor.WithLocker(locker))
	}
	app.Editor = editor.NewManager(store, opts...)
	return app, nil
}

func (a *App) openStore() (ports.GameStore, ports.DistributedLocker, error) {
	sc := a.Config.Store
	switch sc.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil, nil
	case config.DriverFile:
		return file.New(sc.Path), nil, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(sc.Path)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil, nil
	case config.DriverRedis:
		var opts []redis.Option
		if sc.Prefix != "" {
			opts = append(opts, redis.WithPrefix(sc.Prefix))
		}
		if sc.TTL > 0 {
			opts = append(opts, redis.WithTTL(sc.TTL))
		}
		store := redis.New(sc.RedisAddr, sc.RedisPassword, sc.RedisDB, opts...)
		a.closers = append(a.closers, store.Close)
		locker := redis.NewLocker(store.Client(), strings.TrimSuffix(sc.Prefix, "game:"))
		return store, locker, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}
}

// SeedLibrary imports the games of the configured library directory, if any.
func (a *App) SeedLibrary(ctx context.Context) (int, error) {
	if a.Config.Library.Dir == "" {
		return 0, nil
	}
	lib, err := loam.Open(a.Config.Library.Dir)
	if err != nil {
		return 0, err
	}
	return a.Editor.Seed(ctx, lib)
}

// Close releases the store.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
