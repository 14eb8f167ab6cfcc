package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/squadstats/internal/api"
	"github.com/mmynk/squadstats/internal/models"
	"github.com/mmynk/squadstats/internal/squad"
)

// CreateGroup creates a group founded by the local user.
func (s *SquadService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received", "name", req.Msg.Name)

	g, err := s.client.CreateGroup(ctx, req.Msg.Name)
	s.record("create_group", err)
	if err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", g.ID, "code", g.Code)
	return connect.NewResponse(&api.CreateGroupResponse{Group: *g}), nil
}

// JoinGroup adds the local user to the group with the given code.
func (s *SquadService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	slog.Info("JoinGroup request received", "code", req.Msg.Code)

	if req.Msg.Code == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("code required"))
	}

	g, err := s.client.JoinGroup(ctx, req.Msg.Code)
	s.record("join_group", err)
	if err != nil {
		slog.Warn("JoinGroup failed", "code", req.Msg.Code, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group joined", "group_id", g.ID, "members_count", len(g.Users))
	return connect.NewResponse(&api.JoinGroupResponse{Group: *g}), nil
}

// LeaveGroup removes the local user from a group.
func (s *SquadService) LeaveGroup(ctx context.Context, req *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error) {
	slog.Info("LeaveGroup request received", "group_id", req.Msg.GroupID)

	if req.Msg.GroupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}

	err := s.client.LeaveGroup(ctx, req.Msg.GroupID)
	s.record("leave_group", err)
	if err != nil {
		slog.Error("LeaveGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.LeaveGroupResponse{}), nil
}

// ListGroups returns the local user's groups in membership order.
func (s *SquadService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	groups, err := s.client.Groups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Debug("ListGroups successful", "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: groups}), nil
}

// GetGroup looks a group up by id or code.
func (s *SquadService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	var (
		g   *models.Group
		err error
	)
	switch {
	case req.Msg.GroupID != "":
		g, err = s.client.GroupByID(ctx, req.Msg.GroupID)
	case req.Msg.Code != "":
		g, err = s.client.GroupByCode(ctx, req.Msg.Code)
	default:
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id or code required"))
	}
	if err != nil {
		slog.Warn("GetGroup failed", "group_id", req.Msg.GroupID, "code", req.Msg.Code, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: *g}), nil
}

// AddCounter adds a counter to a group.
func (s *SquadService) AddCounter(ctx context.Context, req *connect.Request[api.AddCounterRequest]) (*connect.Response[api.AddCounterResponse], error) {
	slog.Info("AddCounter request received",
		"code", req.Msg.Code,
		"title", req.Msg.Title,
	)

	c, err := s.client.AddCounter(ctx, req.Msg.Code, squad.NewCounter{
		Title:       req.Msg.Title,
		Description: req.Msg.Description,
		Emoji:       req.Msg.Emoji,
		Color:       req.Msg.Color,
	})
	s.record("add_counter", err)
	if err != nil {
		slog.Error("AddCounter failed", "code", req.Msg.Code, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.AddCounterResponse{Counter: c}), nil
}

// Increment logs one unit of a counter for the local user.
func (s *SquadService) Increment(ctx context.Context, req *connect.Request[api.IncrementRequest]) (*connect.Response[api.IncrementResponse], error) {
	entry, err := s.client.Increment(ctx, req.Msg.Code, req.Msg.CounterID)
	s.record("add_log", err)
	if err != nil {
		slog.Warn("Increment failed",
			"code", req.Msg.Code,
			"counter_id", req.Msg.CounterID,
			"error", err,
		)
		return nil, toConnectError(err)
	}

	slog.Debug("Increment logged", "counter_id", entry.CounterID, "user_id", entry.UserID)
	return connect.NewResponse(&api.IncrementResponse{Entry: entry}), nil
}
