package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/udclean/udc/internal/auth"
	"github.com/udclean/udc/internal/bus"
	"github.com/udclean/udc/internal/config"
	"github.com/udclean/udc/internal/connectivity"
	"github.com/udclean/udc/internal/lock"
	"github.com/udclean/udc/internal/logging"
	"github.com/udclean/udc/internal/paths"
	"github.com/udclean/udc/internal/remote"
	"github.com/udclean/udc/internal/store"
	intsync "github.com/udclean/udc/internal/sync"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved startup options passed to the fx module.
type Params struct {
	ConfigPath string // optional override; empty = use default location
}

// Module returns the fx module for the daemon, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideLock,
			provideStore,
			provideRemote,
			provideMonitor,
			provideEngine,
			provideManager,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	path := p.ConfigPath
	if path == "" {
		path = paths.ConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	base := paths.BaseDir(cfg.DataDir)
	if err := paths.EnsureDirs(base); err != nil {
		return nil, err
	}
	return logging.New(paths.LogPath(base))
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(cfg *config.Config, logger *zap.Logger) (*lock.Lock, error) {
	base := paths.BaseDir(cfg.DataDir)
	logger.Info("acquiring data dir lock", zap.String("dir", base))
	l, err := lock.Acquire(base)
	if err != nil {
		return nil, err
	}
	logger.Info("data dir lock acquired")
	return l, nil
}

func provideStore(cfg *config.Config, logger *zap.Logger) (*store.DB, error) {
	dbPath := paths.DBPath(paths.BaseDir(cfg.DataDir))
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideRemote(cfg *config.Config, logger *zap.Logger) (*remote.Client, error) {
	return remote.New(cfg.SupabaseURL, cfg.SupabaseKey, logger)
}

func provideMonitor(cfg *config.Config, b *bus.Bus, logger *zap.Logger) *connectivity.Monitor {
	probeURL := cfg.SupabaseURL + "/auth/v1/health"
	return connectivity.NewMonitor(probeURL, cfg.ProbeInterval(), b, logger)
}

func provideEngine(db *store.DB, rc *remote.Client, mon *connectivity.Monitor, b *bus.Bus, cfg *config.Config, logger *zap.Logger) *intsync.Engine {
	return intsync.NewEngine(db, rc, mon, b, logger, cfg.QueueRetention())
}

func provideManager(db *store.DB, rc *remote.Client, engine *intsync.Engine, mon *connectivity.Monitor, b *bus.Bus, cfg *config.Config, logger *zap.Logger) *auth.Manager {
	return auth.NewManager(db, rc, engine, mon, b, logger, cfg.SyncInterval())
}

func registerLifecycle(lc fx.Lifecycle, lk *lock.Lock, mon *connectivity.Monitor, engine *intsync.Engine, mgr *auth.Manager, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			mon.Start(context.Background())
			mgr.Watch(context.Background())

			// Restore a cached session if one exists. Missing sessions
			// are not an error at startup; the user signs in later.
			if err := mgr.Resume(context.Background()); err != nil {
				if errors.Is(err, auth.ErrOfflineNoSession) || errors.Is(err, store.ErrNotFound) {
					logger.Info("no cached session, sign-in required")
				} else {
					logger.Warn("session resume failed", zap.Error(err))
				}
			}

			return nil
		},
		OnStop: func(_ context.Context) error {
			mgr.Stop()
			engine.StopAutoSync()
			mon.Stop()
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			return nil
		},
	})
}
