package squad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/squadstats/internal/models"
	"github.com/mmynk/squadstats/internal/storage"
)

// Repository owns the shared code -> Group mapping stored under GroupsKey.
//
// Every mutation reads the whole mapping, applies the change and writes the
// whole mapping back. Writers inside one process are serialized by mu.
// Writers in other processes sharing the same store are not: two
// read-modify-write cycles that overlap lose one of the updates.
type Repository struct {
	store  storage.Store
	mu     sync.Mutex
	now    func() time.Time
	codes  func() (string, error)
	notify func()
}

// NewRepository creates a Repository over store. notify, if non-nil, is
// called after every successful write.
func NewRepository(store storage.Store, notify func()) *Repository {
	if notify == nil {
		notify = func() {}
	}
	return &Repository{
		store:  store,
		now:    time.Now,
		codes:  NewCode,
		notify: notify,
	}
}

// snapshot is one decoded copy of the mapping plus an id -> code index.
type snapshot struct {
	byCode   map[string]*models.Group
	codeByID map[string]string
}

func (s *snapshot) insert(g *models.Group) {
	s.byCode[g.Code] = g
	s.codeByID[g.ID] = g.Code
}

func (s *snapshot) byID(id string) (*models.Group, bool) {
	code, ok := s.codeByID[id]
	if !ok {
		return nil, false
	}
	g, ok := s.byCode[code]
	return g, ok
}

func (r *Repository) load(ctx context.Context) (*snapshot, error) {
	snap := &snapshot{
		byCode:   make(map[string]*models.Group),
		codeByID: make(map[string]string),
	}

	data, err := r.store.Get(ctx, GroupsKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return snap, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}

	var raw map[string]*models.Group
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("Discarding malformed group data", "key", GroupsKey, "error", err)
		return snap, nil
	}

	for code, g := range raw {
		if g == nil {
			continue
		}
		// The map key is authoritative for lookups.
		g.Code = code
		snap.insert(g)
	}
	return snap, nil
}

func (r *Repository) save(ctx context.Context, snap *snapshot) error {
	data, err := json.Marshal(snap.byCode)
	if err != nil {
		return fmt.Errorf("failed to encode groups: %w", err)
	}
	if err := r.store.Put(ctx, GroupsKey, data); err != nil {
		return fmt.Errorf("failed to save groups: %w", err)
	}
	return nil
}

// mutate runs fn against a fresh snapshot and persists it when fn
// returns changed. Nothing is written if fn fails.
func (r *Repository) mutate(ctx context.Context, fn func(*snapshot) (changed bool, err error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.load(ctx)
	if err != nil {
		return err
	}
	changed, err := fn(snap)
	if err != nil || !changed {
		return err
	}
	if err := r.save(ctx, snap); err != nil {
		return err
	}
	r.notify()
	return nil
}

// Create stores a new group founded by founder. joined is the number of
// groups the founder already belongs to.
func (r *Repository) Create(ctx context.Context, name string, founder models.Profile, joined int) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalidArgument)
	}
	if joined >= models.MaxGroupsPerUser {
		return nil, fmt.Errorf("%w: already in %d groups", ErrCapacityExceeded, joined)
	}

	var created *models.Group
	err := r.mutate(ctx, func(snap *snapshot) (bool, error) {
		code, err := r.uniqueCode(snap)
		if err != nil {
			return false, err
		}
		now := r.now().UnixMilli()
		created = &models.Group{
			ID:        uuid.New().String(),
			Code:      code,
			Name:      name,
			Users:     []models.User{founder.AsUser(now)},
			Counters:  []models.Counter{},
			Logs:      []models.LogEntry{},
			CreatedAt: now,
		}
		snap.insert(created)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *Repository) uniqueCode(snap *snapshot) (string, error) {
	for range maxCodeAttempts {
		code, err := r.codes()
		if err != nil {
			return "", err
		}
		if _, taken := snap.byCode[code]; !taken {
			return code, nil
		}
		slog.Debug("Invite code collision, regenerating", "code", code)
	}
	return "", fmt.Errorf("failed to generate a unique code after %d attempts", maxCodeAttempts)
}

// Join adds joiner to the group with the given code. Checks run in order:
// ErrNotFound, ErrAlreadyMember, ErrGroupFull, ErrCapacityExceeded.
func (r *Repository) Join(ctx context.Context, code string, joiner models.Profile, joined int) (*models.Group, error) {
	code = NormalizeCode(code)

	var group *models.Group
	err := r.mutate(ctx, func(snap *snapshot) (bool, error) {
		g, ok := snap.byCode[code]
		if !ok {
			return false, fmt.Errorf("group %q: %w", code, ErrNotFound)
		}
		if g.Member(joiner.ID) >= 0 {
			return false, ErrAlreadyMember
		}
		if len(g.Users) >= models.MaxUsersPerGroup {
			return false, fmt.Errorf("%w: %d members", ErrGroupFull, len(g.Users))
		}
		if joined >= models.MaxGroupsPerUser {
			return false, fmt.Errorf("%w: already in %d groups", ErrCapacityExceeded, joined)
		}
		g.Users = append(g.Users, joiner.AsUser(r.now().UnixMilli()))
		group = g
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// Leave removes userID from the group. Leaving a group the user is not in
// is a no-op; an unknown group is ErrNotFound.
func (r *Repository) Leave(ctx context.Context, groupID, userID string) error {
	return r.mutate(ctx, func(snap *snapshot) (bool, error) {
		g, ok := snap.byID(groupID)
		if !ok {
			return false, fmt.Errorf("group %s: %w", groupID, ErrNotFound)
		}
		i := g.Member(userID)
		if i < 0 {
			return false, nil
		}
		g.Users = append(g.Users[:i], g.Users[i+1:]...)
		return true, nil
	})
}

// AddCounter appends c to the group with the given code.
func (r *Repository) AddCounter(ctx context.Context, code string, c models.Counter) error {
	code = NormalizeCode(code)
	return r.mutate(ctx, func(snap *snapshot) (bool, error) {
		g, ok := snap.byCode[code]
		if !ok {
			return false, fmt.Errorf("group %q: %w", code, ErrNotFound)
		}
		if len(g.Counters) >= models.MaxCountersPerGroup {
			return false, fmt.Errorf("%w: %d counters", ErrCapacityExceeded, len(g.Counters))
		}
		g.Counters = append(g.Counters, c)
		return true, nil
	})
}

// AddLog appends entry to the group's log. The counter must belong to the
// group and the user must currently be a member.
func (r *Repository) AddLog(ctx context.Context, code string, entry models.LogEntry) error {
	code = NormalizeCode(code)
	return r.mutate(ctx, func(snap *snapshot) (bool, error) {
		g, ok := snap.byCode[code]
		if !ok {
			return false, fmt.Errorf("group %q: %w", code, ErrNotFound)
		}
		if _, ok := g.Counter(entry.CounterID); !ok {
			return false, fmt.Errorf("counter %s: %w", entry.CounterID, ErrNotFound)
		}
		if g.Member(entry.UserID) < 0 {
			return false, ErrNotMember
		}
		g.Logs = append(g.Logs, entry)
		return true, nil
	})
}

// UpdateMember overwrites name, avatar and color of the user p.ID in every
// listed group, keeping id and joinedAt. Unknown groups and groups the user
// is not in are skipped. It returns the number of groups updated.
func (r *Repository) UpdateMember(ctx context.Context, groupIDs []string, p models.Profile) (int, error) {
	updated := 0
	err := r.mutate(ctx, func(snap *snapshot) (bool, error) {
		for _, id := range groupIDs {
			g, ok := snap.byID(id)
			if !ok {
				slog.Debug("Skipping stale group during profile sync", "group_id", id)
				continue
			}
			i := g.Member(p.ID)
			if i < 0 {
				continue
			}
			u := &g.Users[i]
			u.Name, u.Avatar, u.Color = p.Name, p.Avatar, p.Color
			updated++
		}
		return updated > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// ByID returns the group with the given id.
func (r *Repository) ByID(ctx context.Context, id string) (*models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	g, ok := snap.byID(id)
	if !ok {
		return nil, fmt.Errorf("group %s: %w", id, ErrNotFound)
	}
	return g, nil
}

// ByCode returns the group with the given invite code, ignoring case.
func (r *Repository) ByCode(ctx context.Context, code string) (*models.Group, error) {
	code = NormalizeCode(code)

	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	g, ok := snap.byCode[code]
	if !ok {
		return nil, fmt.Errorf("group %q: %w", code, ErrNotFound)
	}
	return g, nil
}

// Resolve returns the groups for ids in order from a single snapshot,
// skipping ids with no group.
func (r *Repository) Resolve(ctx context.Context, ids []string) ([]models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	groups := make([]models.Group, 0, len(ids))
	for _, id := range ids {
		if g, ok := snap.byID(id); ok {
			groups = append(groups, *g)
		}
	}
	return groups, nil
}
