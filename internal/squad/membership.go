package squad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/mmynk/squadstats/internal/storage"
)

// Memberships is the local, ordered list of group ids the user belongs to.
// It has no duplicate guard of its own; callers check Contains first.
type Memberships struct {
	store storage.Store
	mu    sync.Mutex
}

// NewMemberships creates a Memberships index backed by store.
func NewMemberships(store storage.Store) *Memberships {
	return &Memberships{store: store}
}

// List returns the group ids in insertion order.
func (m *Memberships) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx)
}

// Contains reports whether id is in the index.
func (m *Memberships) Contains(ctx context.Context, id string) (bool, error) {
	ids, err := m.List(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, id), nil
}

// Add appends id.
func (m *Memberships) Add(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids, err := m.load(ctx)
	if err != nil {
		return err
	}
	return m.save(ctx, append(ids, id))
}

// Remove drops every occurrence of id. Removing an absent id is a no-op.
func (m *Memberships) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids, err := m.load(ctx)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(ids, func(s string) bool { return s == id })
	return m.save(ctx, kept)
}

func (m *Memberships) load(ctx context.Context) ([]string, error) {
	data, err := m.store.Get(ctx, MembershipKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load memberships: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		slog.Warn("Discarding malformed membership index", "key", MembershipKey, "error", err)
		return []string{}, nil
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (m *Memberships) save(ctx context.Context, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode memberships: %w", err)
	}
	if err := m.store.Put(ctx, MembershipKey, data); err != nil {
		return fmt.Errorf("failed to save memberships: %w", err)
	}
	return nil
}
