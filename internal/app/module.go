// Package app composes the application with fx.
package app

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/mfigueira/echochat/internal/auth"
	"github.com/mfigueira/echochat/internal/bus"
	"github.com/mfigueira/echochat/internal/config"
	"github.com/mfigueira/echochat/internal/lock"
	"github.com/mfigueira/echochat/internal/logging"
	"github.com/mfigueira/echochat/internal/profile"
	"github.com/mfigueira/echochat/internal/responder"
	"github.com/mfigueira/echochat/internal/state"
	"github.com/mfigueira/echochat/internal/storage"
	"github.com/mfigueira/echochat/internal/tui"
	"github.com/mfigueira/echochat/internal/tui/ui"
)

// Params holds the resolved profile passed to the fx module.
type Params struct {
	Profile string
}

// Module returns the fx module composing all providers and lifecycle
// hooks.
func Module(p Params) fx.Option {
	return fx.Module("echochat",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideLock,
			provideDB,
			providePersister,
			provideStore,
			provideVerifier,
			provideFlow,
			provideFlash,
			provideResponder,
			provideApp,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig() *config.Config {
	cfg, err := config.Load(profile.ConfigPath())
	if err != nil {
		// Missing or unreadable config is not fatal; defaults apply.
		return &config.Config{}
	}
	return cfg
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.Profile), p.Profile)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.Profile); err != nil {
		return nil, err
	}
	logger.Info("acquiring profile lock", zap.String("profile", p.Profile))
	l, err := lock.Acquire(profile.Dir(p.Profile))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideDB(p Params, _ *lock.Lock, logger *zap.Logger) (*storage.DB, error) {
	dbPath := profile.DBPath(p.Profile)
	db, err := storage.Open(dbPath)
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
	logger.Info("storage initialized", zap.String("path", dbPath))
	return db, nil
}

func provideStore(b *bus.Bus, persister *storage.Persister) *state.Store {
	store := state.New(b)
	store.Seed(persister.Load())
	return store
}

func providePersister(db *storage.DB, b *bus.Bus, logger *zap.Logger) *storage.Persister {
	return storage.NewPersister(db, nil, b, logger)
}

func provideVerifier(cfg *config.Config) *auth.Verifier {
	return auth.NewVerifier(cfg.OTPSecret)
}

func provideFlow(store *state.Store, verifier *auth.Verifier, b *bus.Bus, logger *zap.Logger) *auth.Flow {
	return auth.NewFlow(store, verifier, b, logger)
}

func provideFlash() *ui.Flash {
	return ui.NewFlash(0)
}

func provideResponder(store *state.Store, flash *ui.Flash, logger *zap.Logger) *responder.Responder {
	return responder.New(store, flash, logger)
}

func provideApp(p Params, store *state.Store, b *bus.Bus, flow *auth.Flow, r *responder.Responder, flash *ui.Flash, cfg *config.Config, logger *zap.Logger) *tui.App {
	countries := auth.DefaultCountryCodes
	if len(cfg.Countries) > 0 {
		countries = countries[:0:0]
		for _, c := range cfg.Countries {
			countries = append(countries, auth.CountryCode{Name: c.Name, Code: c.Code})
		}
	}
	return tui.NewApp(tui.Options{
		Store:     store,
		Bus:       b,
		Flow:      flow,
		Responder: r,
		Flash:     flash,
		Logger:    logger,
		Profile:   p.Profile,
		Countries: countries,
	})
}

func registerLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, app *tui.App, persister *storage.Persister, store *state.Store, db *storage.DB, lk *lock.Lock, flash *ui.Flash, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			persister.SetStore(store)
			persister.Start(context.Background())

			// The TUI owns the foreground; exiting it shuts the app down.
			go func() {
				if err := app.Run(); err != nil {
					logger.Error("tui error", zap.Error(err))
					os.Exit(1)
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			app.Stop()
			flash.Close()
			persister.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing storage", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("echochat stopped")
			return nil
		},
	})
}
