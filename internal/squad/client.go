// Package squad implements group membership, counters and the event log
// on top of a pair of key-value stores.
//
// A Client is one installation: its local store holds the user's profile
// and membership index, its shared store holds every group. Pointing several
// clients at the same shared store (Redis, Postgres, one SQLite file) lets
// them see each other's groups.
package squad

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/squadstats/internal/models"
	"github.com/mmynk/squadstats/internal/storage"
)

// Client is the entry point for every user-facing operation.
type Client struct {
	identity    *Identity
	memberships *Memberships
	groups      *Repository
	notifier    *Notifier
	now         func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithCodeGenerator overrides invite code generation.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(c *Client) { c.groups.codes = gen }
}

// WithNotifier shares an existing Notifier instead of creating one.
func WithNotifier(n *Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// New creates a Client. local and shared may be the same store.
func New(local, shared storage.Store, opts ...Option) *Client {
	c := &Client{
		identity:    NewIdentity(local),
		memberships: NewMemberships(local),
		notifier:    NewNotifier(),
		now:         time.Now,
	}
	c.groups = NewRepository(shared, func() { c.notifier.Notify() })
	for _, opt := range opts {
		opt(c)
	}
	c.groups.now = c.now
	return c
}

// Notifier returns the change broadcaster fired after every write.
func (c *Client) Notifier() *Notifier {
	return c.notifier
}

// Profile returns the local profile or ErrMissingProfile.
func (c *Client) Profile(ctx context.Context) (models.Profile, error) {
	return c.identity.Load(ctx)
}

// CreateProfile creates the local profile with a random palette color.
func (c *Client) CreateProfile(ctx context.Context, name, avatar string) (models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Profile{}, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if _, err := c.identity.Load(ctx); err == nil {
		return models.Profile{}, ErrProfileExists
	} else if !errors.Is(err, ErrMissingProfile) {
		return models.Profile{}, err
	}
	if avatar == "" {
		avatar = DefaultAvatar
	}

	p := models.Profile{
		ID:     uuid.New().String(),
		Name:   name,
		Avatar: avatar,
		Color:  ProfileColors[rand.IntN(len(ProfileColors))],
	}
	if err := c.identity.Save(ctx, p); err != nil {
		return models.Profile{}, err
	}
	slog.Info("Profile created", "user_id", p.ID, "name", p.Name)
	c.notifier.Notify()
	return p, nil
}

// ProfileUpdate holds the editable profile fields. Empty fields are left
// unchanged.
type ProfileUpdate struct {
	Name   string
	Avatar string
	Color  string
}

// UpdateProfile saves the edited profile and copies it into every group the
// user belongs to. Propagation is best-effort: the profile is saved first
// and a failed group write is reported but not rolled back.
func (c *Client) UpdateProfile(ctx context.Context, u ProfileUpdate) (models.Profile, error) {
	p, err := c.identity.Load(ctx)
	if err != nil {
		return models.Profile{}, err
	}
	if name := strings.TrimSpace(u.Name); name != "" {
		p.Name = name
	}
	if u.Avatar != "" {
		p.Avatar = u.Avatar
	}
	if u.Color != "" {
		p.Color = u.Color
	}
	if err := c.identity.Save(ctx, p); err != nil {
		return models.Profile{}, err
	}
	c.notifier.Notify()

	ids, err := c.memberships.List(ctx)
	if err != nil {
		return p, fmt.Errorf("failed to propagate profile: %w", err)
	}
	n, err := c.groups.UpdateMember(ctx, ids, p)
	if err != nil {
		return p, fmt.Errorf("failed to propagate profile: %w", err)
	}
	slog.Info("Profile updated", "user_id", p.ID, "groups_updated", n)
	return p, nil
}

// CreateGroup creates a group with the local user as its only member.
func (c *Client) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	p, err := c.identity.Load(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := c.memberships.List(ctx)
	if err != nil {
		return nil, err
	}

	g, err := c.groups.Create(ctx, name, p, len(ids))
	if err != nil {
		return nil, err
	}
	if err := c.memberships.Add(ctx, g.ID); err != nil {
		return nil, err
	}
	slog.Info("Group created", "group_id", g.ID, "code", g.Code, "name", g.Name)
	return g, nil
}

// JoinGroup adds the local user to the group with the given invite code.
func (c *Client) JoinGroup(ctx context.Context, code string) (*models.Group, error) {
	p, err := c.identity.Load(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := c.memberships.List(ctx)
	if err != nil {
		return nil, err
	}

	g, err := c.groups.Join(ctx, code, p, len(ids))
	if err != nil {
		return nil, err
	}
	indexed, err := c.memberships.Contains(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	if !indexed {
		if err := c.memberships.Add(ctx, g.ID); err != nil {
			return nil, err
		}
	}
	slog.Info("Group joined", "group_id", g.ID, "code", g.Code, "members", len(g.Users))
	return g, nil
}

// LeaveGroup removes the local user from the group and always drops the
// group from the membership index, even when the group side fails.
func (c *Client) LeaveGroup(ctx context.Context, groupID string) error {
	var groupErr error
	p, err := c.identity.Load(ctx)
	switch {
	case err == nil:
		groupErr = c.groups.Leave(ctx, groupID, p.ID)
	case errors.Is(err, ErrMissingProfile):
		// Nothing to remove on the group side.
	default:
		groupErr = err
	}

	if err := c.memberships.Remove(ctx, groupID); err != nil {
		return err
	}
	c.notifier.Notify()

	if errors.Is(groupErr, ErrNotFound) {
		slog.Warn("Left a group that no longer exists", "group_id", groupID)
		return nil
	}
	return groupErr
}

// NewCounter holds the caller-supplied counter fields.
type NewCounter struct {
	Title       string
	Description string
	Emoji       string
	Color       string
}

// AddCounter creates a counter in the group with the given code.
func (c *Client) AddCounter(ctx context.Context, code string, nc NewCounter) (models.Counter, error) {
	p, err := c.identity.Load(ctx)
	if err != nil {
		return models.Counter{}, err
	}
	title := strings.TrimSpace(nc.Title)
	if title == "" {
		return models.Counter{}, fmt.Errorf("%w: counter title is required", ErrInvalidArgument)
	}

	counter := models.Counter{
		ID:          uuid.New().String(),
		Title:       title,
		Description: strings.TrimSpace(nc.Description),
		Emoji:       nc.Emoji,
		Color:       nc.Color,
		CreatedAt:   c.now().UnixMilli(),
		CreatedBy:   p.ID,
	}
	if counter.Emoji == "" {
		counter.Emoji = DefaultCounterEmoji
	}
	if counter.Color == "" {
		counter.Color = DefaultCounterColor
	}

	if err := c.groups.AddCounter(ctx, code, counter); err != nil {
		return models.Counter{}, err
	}
	slog.Info("Counter added", "code", NormalizeCode(code), "counter_id", counter.ID, "title", counter.Title)
	return counter, nil
}

// AddLog appends a log entry. Missing id and timestamp are filled in.
func (c *Client) AddLog(ctx context.Context, code string, entry models.LogEntry) (models.LogEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == 0 {
		entry.Timestamp = c.now().UnixMilli()
	}
	if err := c.groups.AddLog(ctx, code, entry); err != nil {
		return models.LogEntry{}, err
	}
	return entry, nil
}

// Increment logs one unit of counterID for the local user.
func (c *Client) Increment(ctx context.Context, code, counterID string) (models.LogEntry, error) {
	p, err := c.identity.Load(ctx)
	if err != nil {
		return models.LogEntry{}, err
	}
	return c.AddLog(ctx, code, models.LogEntry{CounterID: counterID, UserID: p.ID})
}

// GroupByID returns the group with the given id.
func (c *Client) GroupByID(ctx context.Context, id string) (*models.Group, error) {
	return c.groups.ByID(ctx, id)
}

// GroupByCode returns the group with the given invite code.
func (c *Client) GroupByCode(ctx context.Context, code string) (*models.Group, error) {
	return c.groups.ByCode(ctx, code)
}

// GroupIDs returns the membership index.
func (c *Client) GroupIDs(ctx context.Context) ([]string, error) {
	return c.memberships.List(ctx)
}

// Groups resolves the membership index in order, skipping ids whose group
// no longer exists.
func (c *Client) Groups(ctx context.Context) ([]models.Group, error) {
	ids, err := c.memberships.List(ctx)
	if err != nil {
		return nil, err
	}
	return c.groups.Resolve(ctx, ids)
}
