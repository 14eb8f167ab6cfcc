package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/squadstats/internal/api"
	"github.com/mmynk/squadstats/internal/squad"
	"github.com/mmynk/squadstats/internal/stats"
)

// GetLeaderboard ranks members for every counter of a group.
func (s *SquadService) GetLeaderboard(ctx context.Context, req *connect.Request[api.GetLeaderboardRequest]) (*connect.Response[api.GetLeaderboardResponse], error) {
	g, err := s.client.GroupByCode(ctx, req.Msg.Code)
	if err != nil {
		slog.Warn("GetLeaderboard failed", "code", req.Msg.Code, "error", err)
		return nil, toConnectError(err)
	}

	boards := make([]api.Board, 0, len(g.Counters))
	for _, b := range stats.Boards(*g) {
		if req.Msg.CounterID != "" && b.Counter.ID != req.Msg.CounterID {
			continue
		}
		boards = append(boards, toAPIBoard(b))
	}
	if req.Msg.CounterID != "" && len(boards) == 0 {
		return nil, toConnectError(fmt.Errorf("counter %s: %w", req.Msg.CounterID, squad.ErrNotFound))
	}

	return connect.NewResponse(&api.GetLeaderboardResponse{Boards: boards}), nil
}

func toAPIBoard(b stats.Board) api.Board {
	standings := make([]api.Standing, len(b.Standings))
	for i, st := range b.Standings {
		standings[i] = api.Standing{
			UserID: st.UserID,
			Name:   st.Name,
			Count:  st.Count,
			Color:  st.Color,
		}
	}
	return api.Board{
		Counter:   b.Counter,
		Total:     b.Total,
		Standings: standings,
		HasData:   b.HasData,
	}
}

// GetCommentary returns a narrative for a group's standings. Generation
// failures come back as fallback text, not errors.
func (s *SquadService) GetCommentary(ctx context.Context, req *connect.Request[api.GetCommentaryRequest]) (*connect.Response[api.GetCommentaryResponse], error) {
	slog.Info("GetCommentary request received", "code", req.Msg.Code)

	g, err := s.client.GroupByCode(ctx, req.Msg.Code)
	if err != nil {
		return nil, toConnectError(err)
	}

	text := s.commentator.Comment(ctx, g.Users, g.Counters, g.Logs)
	return connect.NewResponse(&api.GetCommentaryResponse{Text: text}), nil
}
