package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mmynk/squadstats/internal/storage"
)

func setupTestRedis(t *testing.T) (*Store, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	store, err := New("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	return store, s
}

func TestNew(t *testing.T) {
	store, _ := setupTestRedis(t)
	defer store.Close()

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestNewBadURL(t *testing.T) {
	if _, err := New("not a url"); err == nil {
		t.Error("expected error for invalid url")
	}
}

func TestGetMissing(t *testing.T) {
	store, _ := setupTestRedis(t)
	defer store.Close()

	_, err := store.Get(context.Background(), "squad_db_v2")
	if !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestPutAndGet(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()

	ctx := context.Background()
	if err := store.Put(ctx, "squad_db_v2", []byte(`{}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "squad_db_v2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{}` {
		t.Errorf("expected {}, got %s", got)
	}

	// Keys are namespaced and never expire.
	if !s.Exists(DefaultPrefix + "squad_db_v2") {
		t.Error("expected prefixed key in redis")
	}
	if ttl := s.TTL(DefaultPrefix + "squad_db_v2"); ttl != 0 {
		t.Errorf("expected no ttl, got %v", ttl)
	}
}

func TestSharedBetweenClients(t *testing.T) {
	s := miniredis.RunT(t)
	ctx := context.Background()

	a := NewWithClient(goredis.NewClient(&goredis.Options{Addr: s.Addr()}), "team:")
	b := NewWithClient(goredis.NewClient(&goredis.Options{Addr: s.Addr()}), "team:")
	defer a.Close()
	defer b.Close()

	if err := a.Put(ctx, "squad_db_v2", []byte("from-a")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := b.Get(ctx, "squad_db_v2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "from-a" {
		t.Errorf("expected value written by a, got %s", got)
	}
}
