// Package service implements the SquadService Connect handlers on top of
// a squad.Client.
package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/squadstats/internal/api"
	"github.com/mmynk/squadstats/internal/commentary"
	"github.com/mmynk/squadstats/internal/metrics"
	"github.com/mmynk/squadstats/internal/squad"
	"github.com/mmynk/squadstats/internal/syncer"
)

var _ api.SquadServiceHandler = (*SquadService)(nil)

// SquadService implements api.SquadServiceHandler.
type SquadService struct {
	client      *squad.Client
	poller      *syncer.Poller
	commentator *commentary.Commentator
	metrics     *metrics.Metrics
}

// Option configures a SquadService.
type Option func(*SquadService)

// WithPoller enables GetSnapshot and SelectGroup.
func WithPoller(p *syncer.Poller) Option {
	return func(s *SquadService) { s.poller = p }
}

// WithCommentator sets the narrative generator used by GetCommentary.
func WithCommentator(c *commentary.Commentator) Option {
	return func(s *SquadService) { s.commentator = c }
}

// WithMetrics records mutation outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *SquadService) { s.metrics = m }
}

// NewSquadService creates a SquadService for client.
func NewSquadService(client *squad.Client, opts ...Option) *SquadService {
	s := &SquadService{client: client}
	for _, opt := range opts {
		opt(s)
	}
	if s.commentator == nil {
		s.commentator = commentary.New(nil)
	}
	return s
}

func (s *SquadService) record(operation string, err error) {
	if s.metrics != nil {
		s.metrics.Mutation(operation, err)
	}
}

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) *connect.Error {
	var code connect.Code
	switch {
	case errors.Is(err, squad.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, squad.ErrAlreadyMember), errors.Is(err, squad.ErrProfileExists):
		code = connect.CodeAlreadyExists
	case errors.Is(err, squad.ErrGroupFull), errors.Is(err, squad.ErrCapacityExceeded):
		code = connect.CodeResourceExhausted
	case errors.Is(err, squad.ErrMissingProfile):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, squad.ErrNotMember):
		code = connect.CodePermissionDenied
	case errors.Is(err, squad.ErrInvalidArgument):
		code = connect.CodeInvalidArgument
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	default:
		code = connect.CodeInternal
	}
	return connect.NewError(code, err)
}
