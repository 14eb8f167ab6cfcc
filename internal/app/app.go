// Package app wires configured stores, the squad client and the commentator
// together for the server and CLI entry points.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/squadstats/internal/commentary"
	"github.com/mmynk/squadstats/internal/config"
	"github.com/mmynk/squadstats/internal/squad"
	"github.com/mmynk/squadstats/internal/storage"
	"github.com/mmynk/squadstats/internal/storage/memory"
	"github.com/mmynk/squadstats/internal/storage/postgres"
	"github.com/mmynk/squadstats/internal/storage/redis"
	"github.com/mmynk/squadstats/internal/storage/sqlite"
)

// App holds the opened stores and the client built on them.
type App struct {
	Squad  *squad.Client
	Local  storage.Store
	Shared storage.Store
}

// Open opens the local SQLite store under cfg.DataDir and the shared store
// selected by cfg.SharedStore.
func Open(ctx context.Context, cfg *config.Config, opts ...squad.Option) (*App, error) {
	local, err := sqlite.New(cfg.LocalDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	slog.Debug("Local store opened", "database", cfg.LocalDBPath())

	shared, err := OpenShared(ctx, cfg)
	if err != nil {
		local.Close()
		return nil, err
	}

	return &App{
		Squad:  squad.New(local, shared, opts...),
		Local:  local,
		Shared: shared,
	}, nil
}

// OpenShared opens the store that holds every group.
func OpenShared(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.SharedStore {
	case config.StoreSQLite:
		s, err := sqlite.New(cfg.SharedDBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to open shared sqlite store: %w", err)
		}
		slog.Info("Shared store opened", "kind", cfg.SharedStore, "database", cfg.SharedDBPath())
		return s, nil
	case config.StoreRedis:
		s, err := redis.New(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open shared redis store: %w", err)
		}
		slog.Info("Shared store opened", "kind", cfg.SharedStore)
		return s, nil
	case config.StorePostgres:
		s, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open shared postgres store: %w", err)
		}
		slog.Info("Shared store opened", "kind", cfg.SharedStore)
		return s, nil
	case config.StoreMemory:
		slog.Warn("Shared store is in-memory; groups are lost on exit")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown shared store %q", cfg.SharedStore)
	}
}

// Close closes both stores.
func (a *App) Close() error {
	return errors.Join(a.Shared.Close(), a.Local.Close())
}

// Commentator returns a Gemini-backed commentator when an API key is
// configured, or one that always returns the error fallback.
func Commentator(ctx context.Context, cfg *config.Config, opts ...commentary.Option) *commentary.Commentator {
	if cfg.GeminiAPIKey == "" {
		slog.Info("No Gemini API key configured, commentary disabled")
		return commentary.New(nil, opts...)
	}
	gen, err := commentary.NewGemini(ctx, cfg.GeminiAPIKey, commentary.WithModel(cfg.GeminiModel))
	if err != nil {
		slog.Warn("Gemini client unavailable, commentary disabled", "error", err)
		return commentary.New(nil, opts...)
	}
	return commentary.New(gen, opts...)
}
