// Package control wires configuration into concrete infrastructure and
// manages the service lifecycle.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/namdoan/escrowd/internal/core/clock"
	"github.com/namdoan/escrowd/internal/core/config"
	"github.com/namdoan/escrowd/internal/infra/notify"
	"github.com/namdoan/escrowd/internal/infra/storage"
	"github.com/namdoan/escrowd/internal/infra/storage/memory"
	"github.com/namdoan/escrowd/internal/infra/storage/postgres"
	"github.com/namdoan/escrowd/internal/infra/treasury"
	"github.com/namdoan/escrowd/internal/ledger"
	transport "github.com/namdoan/escrowd/internal/transport/http"
	"github.com/namdoan/escrowd/migrations"
)

// App is the assembled escrowd service.
type App struct {
	store    storage.EventRepository
	notifier notify.Notifier
	server   *transport.Server
	log      *slog.Logger
}

// New creates an App with all dependencies initialized.
func New(cfg *config.AppConfig) (*App, error) {
	// 1. Storage
	var store storage.EventRepository
	deps := make(map[string]transport.Pinger)

	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := migrations.Up(db.DB.DB); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}
		repo := postgres.NewEventRepo(db)
		store = repo
		deps["database"] = repo
		slog.Info("Using PostgreSQL storage")
	} else {
		store = memory.NewStore()
		slog.Info("Using Memory storage")
	}

	// 2. Treasury
	var tr treasury.Treasury
	if cfg.Treasury.PayoutURL != "" {
		tr = treasury.NewWebhook(cfg.Treasury)
		slog.Info("Using webhook treasury", "url", cfg.Treasury.PayoutURL)
	} else {
		tr = treasury.NewAccountBook()
		slog.Info("Using in-memory treasury")
	}

	// 3. Notification sinks
	sinks := notify.Multi{notify.NewLogNotifier(slog.Default())}
	if cfg.Redis.URL != "" {
		rn, err := notify.NewRedisNotifier(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis notifier: %w", err)
		}
		sinks = append(sinks, rn)
		deps["redis"] = rn
		slog.Info("Using redis notification stream")
	}

	// 4. Ledger engine + HTTP surface
	svc := ledger.New(store, tr, sinks, clock.NewSystem(), cfg.Ledger.InstanceID)
	server := transport.NewServer(svc, cfg.Server.Port, deps)

	return &App{
		store:    store,
		notifier: sinks,
		server:   server,
		log:      slog.Default(),
	}, nil
}

// Start starts the HTTP server in the background.
func (a *App) Start(ctx context.Context) error {
	go func() {
		if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("HTTP server stopped", "error", err)
		}
	}()
	a.log.Info("escrowd started")
	return nil
}

// Stop gracefully shuts the service down.
func (a *App) Stop(ctx context.Context) error {
	if err := a.server.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	if err := a.notifier.Close(); err != nil {
		a.log.Warn("notifier close failed", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("store close failed", "error", err)
	}
	a.log.Info("escrowd stopped")
	return nil
}
