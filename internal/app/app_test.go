package app

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/mmynk/squadstats/internal/commentary"
	"github.com/mmynk/squadstats/internal/config"
	"github.com/mmynk/squadstats/internal/models"
	"github.com/mmynk/squadstats/internal/squad"
)

func testConfig(t *testing.T, store string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.SharedStore = store
	return cfg
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.StoreSQLite)

	a, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := a.Squad.CreateProfile(ctx, "Alice", ""); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	g, err := a.Squad.CreateGroup(ctx, "Gym")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopening sees the same profile, index and group.
	a, err = Open(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer a.Close()

	p, err := a.Squad.Profile(ctx)
	if err != nil || p.Name != "Alice" {
		t.Fatalf("expected Alice after reopen, got %+v (%v)", p, err)
	}
	groups, err := a.Squad.Groups(ctx)
	if err != nil {
		t.Fatalf("Groups failed: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != g.ID {
		t.Errorf("expected group %s after reopen, got %+v", g.ID, groups)
	}
}

func TestOpenRedisSharesGroups(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	open := func() *App {
		cfg := testConfig(t, config.StoreRedis)
		cfg.RedisURL = "redis://" + mr.Addr()
		a, err := Open(ctx, cfg)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		t.Cleanup(func() { a.Close() })
		return a
	}

	alice, bob := open(), open()
	if _, err := alice.Squad.CreateProfile(ctx, "Alice", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := bob.Squad.CreateProfile(ctx, "Bob", ""); err != nil {
		t.Fatal(err)
	}

	g, err := alice.Squad.CreateGroup(ctx, "Trip")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	joined, err := bob.Squad.JoinGroup(ctx, g.Code)
	if err != nil {
		t.Fatalf("JoinGroup failed: %v", err)
	}
	if len(joined.Users) != 2 {
		t.Errorf("expected 2 members, got %d", len(joined.Users))
	}

	// Each installation keeps its own index.
	ids, err := alice.Squad.GroupIDs(ctx)
	if err != nil || len(ids) != 1 {
		t.Errorf("expected alice to index 1 group, got %v (%v)", ids, err)
	}
}

func TestOpenMemory(t *testing.T) {
	ctx := context.Background()
	a, err := Open(ctx, testConfig(t, config.StoreMemory))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer a.Close()

	if _, err := a.Squad.CreateGroup(ctx, "Gym"); !errors.Is(err, squad.ErrMissingProfile) {
		t.Errorf("expected ErrMissingProfile, got %v", err)
	}
}

func TestOpenSharedUnknown(t *testing.T) {
	cfg := testConfig(t, "etcd")
	if _, err := OpenShared(context.Background(), cfg); err == nil {
		t.Error("expected error for unknown store kind")
	}
}

func TestCommentatorWithoutKey(t *testing.T) {
	cfg := testConfig(t, config.StoreMemory)
	cfg.GeminiAPIKey = ""

	var failures int
	c := Commentator(context.Background(), cfg, commentary.WithFailureHook(func(error) { failures++ }))
	users := []models.User{{ID: "u1", Name: "Alice"}}
	counters := []models.Counter{{ID: "c1", Title: "Pushups"}}
	logs := []models.LogEntry{{ID: "l1", CounterID: "c1", UserID: "u1"}}

	if got := c.Comment(context.Background(), users, counters, logs); got != commentary.ErrorFallback {
		t.Errorf("expected error fallback, got %q", got)
	}
	if failures != 1 {
		t.Errorf("expected failure hook to fire once, got %d", failures)
	}
}
