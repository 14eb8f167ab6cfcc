// Package syncer keeps an in-memory view of the local user's groups fresh.
//
// Other processes may write the shared store at any time, so the Poller
// reloads on a fixed interval and whenever the local Notifier fires.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/squadstats/internal/models"
	"github.com/mmynk/squadstats/internal/squad"
)

// DefaultInterval is how often the Poller reloads without a notification.
const DefaultInterval = 2 * time.Second

// ErrAlreadyRunning is returned by Start on a running Poller.
var ErrAlreadyRunning = errors.New("poller already running")

// State is the Poller's refresh state.
type State int

const (
	Idle State = iota
	Loading
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Source is where the Poller reads from. *squad.Client implements it.
type Source interface {
	Profile(ctx context.Context) (models.Profile, error)
	Groups(ctx context.Context) ([]models.Group, error)
}

// Snapshot is one reconciled view.
type Snapshot struct {
	// Profile is nil until the local profile exists.
	Profile       *models.Profile
	Groups        []models.Group
	ActiveGroupID string
	RefreshedAt   time.Time
}

// Active returns the active group, if any.
func (s Snapshot) Active() (models.Group, bool) {
	for _, g := range s.Groups {
		if g.ID == s.ActiveGroupID {
			return g, true
		}
	}
	return models.Group{}, false
}

// Poller periodically reloads a Source and tracks the active group.
type Poller struct {
	source    Source
	interval  time.Duration
	notifier  *squad.Notifier
	onRefresh func(Snapshot)
	onError   func(error)

	mu      sync.Mutex
	state   State
	current Snapshot
	idle    chan struct{} // closed when the in-flight refresh ends

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithNotifier makes the Poller refresh as soon as n fires.
func WithNotifier(n *squad.Notifier) Option {
	return func(p *Poller) { p.notifier = n }
}

// WithOnRefresh registers a callback run after every successful refresh.
func WithOnRefresh(fn func(Snapshot)) Option {
	return func(p *Poller) { p.onRefresh = fn }
}

// WithOnError registers a callback run when a background refresh fails.
func WithOnError(fn func(error)) Option {
	return func(p *Poller) { p.onError = fn }
}

// New creates a stopped Poller.
func New(source Source, opts ...Option) *Poller {
	p := &Poller{
		source:   source,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the background loop. It refreshes once immediately.
func (p *Poller) Start(ctx context.Context) error {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	if p.cancel != nil {
		return ErrAlreadyRunning
	}

	var changes <-chan struct{}
	unsubscribe := func() {}
	if p.notifier != nil {
		changes, unsubscribe = p.notifier.Subscribe()
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(ctx, changes, unsubscribe, p.done)

	slog.Debug("Poller started", "interval", p.interval)
	return nil
}

// Stop cancels the loop and waits for it to exit. Safe to call repeatedly.
func (p *Poller) Stop() {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
	slog.Debug("Poller stopped")
}

func (p *Poller) loop(ctx context.Context, changes <-chan struct{}, unsubscribe func(), done chan struct{}) {
	defer close(done)
	defer unsubscribe()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.refreshInBackground(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refreshInBackground(ctx)
		case <-changes:
			p.refreshInBackground(ctx)
		}
	}
}

func (p *Poller) refreshInBackground(ctx context.Context) {
	if _, err := p.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("Background refresh failed", "error", err)
		if p.onError != nil {
			p.onError(err)
		}
	}
}

// Refresh reloads the Source and reconciles the active group. If another
// refresh is in flight it returns the current snapshot without reloading.
func (p *Poller) Refresh(ctx context.Context) (Snapshot, error) {
	p.mu.Lock()
	if p.state == Loading {
		snap := p.current
		p.mu.Unlock()
		return snap, nil
	}
	p.state = Loading
	idle := make(chan struct{})
	p.idle = idle
	p.mu.Unlock()

	profile, groups, err := p.read(ctx)

	p.mu.Lock()
	p.state = Idle
	close(idle)
	if err != nil {
		p.mu.Unlock()
		return Snapshot{}, err
	}
	p.current = Snapshot{
		Profile:       profile,
		Groups:        groups,
		ActiveGroupID: Reconcile(p.current.ActiveGroupID, groups),
		RefreshedAt:   time.Now(),
	}
	snap := p.current
	p.mu.Unlock()

	if p.onRefresh != nil {
		p.onRefresh(snap)
	}
	return snap, nil
}

func (p *Poller) read(ctx context.Context) (*models.Profile, []models.Group, error) {
	var profile *models.Profile
	pr, err := p.source.Profile(ctx)
	switch {
	case err == nil:
		profile = &pr
	case errors.Is(err, squad.ErrMissingProfile):
	default:
		return nil, nil, fmt.Errorf("failed to read profile: %w", err)
	}

	groups, err := p.source.Groups(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read groups: %w", err)
	}
	return profile, groups, nil
}

// Loaded returns the latest snapshot once one exists. If nothing has been
// loaded yet it refreshes, or waits for the refresh already in flight.
func (p *Poller) Loaded(ctx context.Context) (Snapshot, error) {
	for {
		p.mu.Lock()
		snap, loading, idle := p.current, p.state == Loading, p.idle
		p.mu.Unlock()

		if !snap.RefreshedAt.IsZero() {
			return snap, nil
		}
		if !loading {
			snap, err := p.Refresh(ctx)
			if err != nil || !snap.RefreshedAt.IsZero() {
				return snap, err
			}
			// Lost the race to another refresh; wait for it below.
			continue
		}

		select {
		case <-idle:
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		}
	}
}

// Snapshot returns the latest view without reloading.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// State reports whether a refresh is in flight.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Select makes groupID the active group. The group must be in the current
// snapshot.
func (p *Poller) Select(groupID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, g := range p.current.Groups {
		if g.ID == groupID {
			p.current.ActiveGroupID = groupID
			return nil
		}
	}
	return fmt.Errorf("group %s: %w", groupID, squad.ErrNotFound)
}

// Reconcile picks the active group after a reload: prev if it is still
// present, otherwise the first group, otherwise none.
func Reconcile(prev string, groups []models.Group) string {
	if prev != "" {
		for _, g := range groups {
			if g.ID == prev {
				return prev
			}
		}
	}
	if len(groups) > 0 {
		return groups[0].ID
	}
	return ""
}
