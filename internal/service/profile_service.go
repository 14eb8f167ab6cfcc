package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/squadstats/internal/api"
	"github.com/mmynk/squadstats/internal/squad"
)

// GetProfile returns the local profile, or an empty response if none exists.
func (s *SquadService) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	p, err := s.client.Profile(ctx)
	if errors.Is(err, squad.ErrMissingProfile) {
		return connect.NewResponse(&api.GetProfileResponse{}), nil
	}
	if err != nil {
		slog.Error("GetProfile failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetProfileResponse{Profile: &p}), nil
}

// CreateProfile creates the local profile.
func (s *SquadService) CreateProfile(ctx context.Context, req *connect.Request[api.CreateProfileRequest]) (*connect.Response[api.CreateProfileResponse], error) {
	slog.Info("CreateProfile request received", "name", req.Msg.Name)

	p, err := s.client.CreateProfile(ctx, req.Msg.Name, req.Msg.Avatar)
	s.record("create_profile", err)
	if err != nil {
		slog.Error("CreateProfile failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CreateProfileResponse{Profile: p}), nil
}

// UpdateProfile edits the local profile and propagates it into every group.
func (s *SquadService) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	slog.Info("UpdateProfile request received",
		"name", req.Msg.Name,
		"avatar", req.Msg.Avatar,
		"color", req.Msg.Color,
	)

	p, err := s.client.UpdateProfile(ctx, squad.ProfileUpdate{
		Name:   req.Msg.Name,
		Avatar: req.Msg.Avatar,
		Color:  req.Msg.Color,
	})
	s.record("update_profile", err)
	if err != nil {
		slog.Error("UpdateProfile failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UpdateProfileResponse{Profile: p}), nil
}
