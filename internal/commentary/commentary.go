// Package commentary produces a short sports-commentator style narrative
// from a group's standings. Generation failures never reach the caller:
// they degrade to fixed fallback text.
package commentary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/squadstats/internal/models"
	"github.com/mmynk/squadstats/internal/stats"
)

// Fallback texts shown instead of a narrative.
const (
	EmptyFallback = "Could not analyze stats right now."
	ErrorFallback = "The commentator is out for a snack (AI Error). Try again later!"
)

const defaultTimeout = 30 * time.Second

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Commentator builds the prompt and applies the fallback rules.
type Commentator struct {
	gen       Generator
	timeout   time.Duration
	onFailure func(error)
}

// Option configures a Commentator.
type Option func(*Commentator)

// WithTimeout bounds a single generation call.
func WithTimeout(d time.Duration) Option {
	return func(c *Commentator) { c.timeout = d }
}

// WithFailureHook is called with every absorbed error.
func WithFailureHook(fn func(error)) Option {
	return func(c *Commentator) { c.onFailure = fn }
}

// New creates a Commentator. A nil gen always yields ErrorFallback.
func New(gen Generator, opts ...Option) *Commentator {
	c := &Commentator{gen: gen, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Comment returns a narrative for the given standings.
func (c *Commentator) Comment(ctx context.Context, users []models.User, counters []models.Counter, logs []models.LogEntry) string {
	if c.gen == nil {
		c.fail(ErrNoAPIKey)
		return ErrorFallback
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.gen.Generate(ctx, Prompt(stats.Summary(users, counters, logs)))
	if err != nil {
		c.fail(err)
		return ErrorFallback
	}
	if strings.TrimSpace(text) == "" {
		return EmptyFallback
	}
	return text
}

func (c *Commentator) fail(err error) {
	slog.Warn("Commentary generation failed", "error", err)
	if c.onFailure != nil {
		c.onFailure(err)
	}
}

// Prompt wraps a standings summary in the commentator instructions.
func Prompt(summary string) string {
	return fmt.Sprintf(`You are a hilarious, high-energy sports commentator for a group of friends using a tracking app called SquadStats.
The group is competing or tracking shared habits.

Here is the current leaderboard data for the group:
%s

Please provide a short, funny, and competitive commentary.
- Mention specific users by name.
- Highlight the winners and gently roast the slackers (those with 0 or low counts).
- If there are multiple counters, mention the most active one.
- Keep it under 150 words.
- Use emojis generously.
`, summary)
}
