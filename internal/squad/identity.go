package squad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/squadstats/internal/models"
	"github.com/mmynk/squadstats/internal/storage"
)

// Identity persists the local user's profile.
type Identity struct {
	store storage.Store
}

// NewIdentity creates an Identity backed by store.
func NewIdentity(store storage.Store) *Identity {
	return &Identity{store: store}
}

// Load returns the stored profile or ErrMissingProfile.
// A malformed record is treated as absent.
func (i *Identity) Load(ctx context.Context) (models.Profile, error) {
	data, err := i.store.Get(ctx, ProfileKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return models.Profile{}, ErrMissingProfile
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}

	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil || p.ID == "" {
		slog.Warn("Ignoring malformed profile", "key", ProfileKey, "error", err)
		return models.Profile{}, ErrMissingProfile
	}
	return p, nil
}

// Save replaces the stored profile.
func (i *Identity) Save(ctx context.Context, p models.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := i.store.Put(ctx, ProfileKey, data); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
