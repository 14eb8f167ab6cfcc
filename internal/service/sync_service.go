package service

import (
	"context"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/squadstats/internal/api"
)

// GetSnapshot returns the poller's latest reconciled view. Before the first
// load completes it refreshes, or waits for the refresh in flight.
func (s *SquadService) GetSnapshot(ctx context.Context, req *connect.Request[api.GetSnapshotRequest]) (*connect.Response[api.GetSnapshotResponse], error) {
	if s.poller == nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("sync is not enabled"))
	}

	snap, err := s.poller.Loaded(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetSnapshotResponse{
		Profile:       snap.Profile,
		Groups:        snap.Groups,
		ActiveGroupID: snap.ActiveGroupID,
		State:         s.poller.State().String(),
		RefreshedAt:   snap.RefreshedAt.UnixMilli(),
	}), nil
}

// SelectGroup moves the active group pointer.
func (s *SquadService) SelectGroup(ctx context.Context, req *connect.Request[api.SelectGroupRequest]) (*connect.Response[api.SelectGroupResponse], error) {
	if s.poller == nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("sync is not enabled"))
	}
	if err := s.poller.Select(req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SelectGroupResponse{ActiveGroupID: req.Msg.GroupID}), nil
}
