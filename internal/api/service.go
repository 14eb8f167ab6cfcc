package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// ServiceName is the fully-qualified name of the squad service.
const ServiceName = "squadstats.v1.SquadService"

// Procedure paths, one per RPC.
const (
	GetProfileProcedure     = "/" + ServiceName + "/GetProfile"
	CreateProfileProcedure  = "/" + ServiceName + "/CreateProfile"
	UpdateProfileProcedure  = "/" + ServiceName + "/UpdateProfile"
	CreateGroupProcedure    = "/" + ServiceName + "/CreateGroup"
	JoinGroupProcedure      = "/" + ServiceName + "/JoinGroup"
	LeaveGroupProcedure     = "/" + ServiceName + "/LeaveGroup"
	ListGroupsProcedure     = "/" + ServiceName + "/ListGroups"
	GetGroupProcedure       = "/" + ServiceName + "/GetGroup"
	AddCounterProcedure     = "/" + ServiceName + "/AddCounter"
	IncrementProcedure      = "/" + ServiceName + "/Increment"
	GetLeaderboardProcedure = "/" + ServiceName + "/GetLeaderboard"
	GetCommentaryProcedure  = "/" + ServiceName + "/GetCommentary"
	GetSnapshotProcedure    = "/" + ServiceName + "/GetSnapshot"
	SelectGroupProcedure    = "/" + ServiceName + "/SelectGroup"
)

// SquadServiceHandler is implemented by the server.
type SquadServiceHandler interface {
	GetProfile(context.Context, *connect.Request[GetProfileRequest]) (*connect.Response[GetProfileResponse], error)
	CreateProfile(context.Context, *connect.Request[CreateProfileRequest]) (*connect.Response[CreateProfileResponse], error)
	UpdateProfile(context.Context, *connect.Request[UpdateProfileRequest]) (*connect.Response[UpdateProfileResponse], error)
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	JoinGroup(context.Context, *connect.Request[JoinGroupRequest]) (*connect.Response[JoinGroupResponse], error)
	LeaveGroup(context.Context, *connect.Request[LeaveGroupRequest]) (*connect.Response[LeaveGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	AddCounter(context.Context, *connect.Request[AddCounterRequest]) (*connect.Response[AddCounterResponse], error)
	Increment(context.Context, *connect.Request[IncrementRequest]) (*connect.Response[IncrementResponse], error)
	GetLeaderboard(context.Context, *connect.Request[GetLeaderboardRequest]) (*connect.Response[GetLeaderboardResponse], error)
	GetCommentary(context.Context, *connect.Request[GetCommentaryRequest]) (*connect.Response[GetCommentaryResponse], error)
	GetSnapshot(context.Context, *connect.Request[GetSnapshotRequest]) (*connect.Response[GetSnapshotResponse], error)
	SelectGroup(context.Context, *connect.Request[SelectGroupRequest]) (*connect.Response[SelectGroupResponse], error)
}

// NewSquadServiceHandler builds an HTTP handler serving every procedure of
// svc. It returns the path prefix to mount it on.
func NewSquadServiceHandler(svc SquadServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetProfileProcedure, connect.NewUnaryHandler(GetProfileProcedure, svc.GetProfile, opts...))
	mux.Handle(CreateProfileProcedure, connect.NewUnaryHandler(CreateProfileProcedure, svc.CreateProfile, opts...))
	mux.Handle(UpdateProfileProcedure, connect.NewUnaryHandler(UpdateProfileProcedure, svc.UpdateProfile, opts...))
	mux.Handle(CreateGroupProcedure, connect.NewUnaryHandler(CreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(JoinGroupProcedure, connect.NewUnaryHandler(JoinGroupProcedure, svc.JoinGroup, opts...))
	mux.Handle(LeaveGroupProcedure, connect.NewUnaryHandler(LeaveGroupProcedure, svc.LeaveGroup, opts...))
	mux.Handle(ListGroupsProcedure, connect.NewUnaryHandler(ListGroupsProcedure, svc.ListGroups, opts...))
	mux.Handle(GetGroupProcedure, connect.NewUnaryHandler(GetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(AddCounterProcedure, connect.NewUnaryHandler(AddCounterProcedure, svc.AddCounter, opts...))
	mux.Handle(IncrementProcedure, connect.NewUnaryHandler(IncrementProcedure, svc.Increment, opts...))
	mux.Handle(GetLeaderboardProcedure, connect.NewUnaryHandler(GetLeaderboardProcedure, svc.GetLeaderboard, opts...))
	mux.Handle(GetCommentaryProcedure, connect.NewUnaryHandler(GetCommentaryProcedure, svc.GetCommentary, opts...))
	mux.Handle(GetSnapshotProcedure, connect.NewUnaryHandler(GetSnapshotProcedure, svc.GetSnapshot, opts...))
	mux.Handle(SelectGroupProcedure, connect.NewUnaryHandler(SelectGroupProcedure, svc.SelectGroup, opts...))
	return "/" + ServiceName + "/", mux
}

// SquadServiceClient is a typed client for SquadService.
type SquadServiceClient struct {
	getProfile     *connect.Client[GetProfileRequest, GetProfileResponse]
	createProfile  *connect.Client[CreateProfileRequest, CreateProfileResponse]
	updateProfile  *connect.Client[UpdateProfileRequest, UpdateProfileResponse]
	createGroup    *connect.Client[CreateGroupRequest, CreateGroupResponse]
	joinGroup      *connect.Client[JoinGroupRequest, JoinGroupResponse]
	leaveGroup     *connect.Client[LeaveGroupRequest, LeaveGroupResponse]
	listGroups     *connect.Client[ListGroupsRequest, ListGroupsResponse]
	getGroup       *connect.Client[GetGroupRequest, GetGroupResponse]
	addCounter     *connect.Client[AddCounterRequest, AddCounterResponse]
	increment      *connect.Client[IncrementRequest, IncrementResponse]
	getLeaderboard *connect.Client[GetLeaderboardRequest, GetLeaderboardResponse]
	getCommentary  *connect.Client[GetCommentaryRequest, GetCommentaryResponse]
	getSnapshot    *connect.Client[GetSnapshotRequest, GetSnapshotResponse]
	selectGroup    *connect.Client[SelectGroupRequest, SelectGroupResponse]
}

// NewSquadServiceClient creates a client for the service at baseURL
// (e.g. http://localhost:8080).
func NewSquadServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SquadServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &SquadServiceClient{
		getProfile:     connect.NewClient[GetProfileRequest, GetProfileResponse](httpClient, baseURL+GetProfileProcedure, opts...),
		createProfile:  connect.NewClient[CreateProfileRequest, CreateProfileResponse](httpClient, baseURL+CreateProfileProcedure, opts...),
		updateProfile:  connect.NewClient[UpdateProfileRequest, UpdateProfileResponse](httpClient, baseURL+UpdateProfileProcedure, opts...),
		createGroup:    connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+CreateGroupProcedure, opts...),
		joinGroup:      connect.NewClient[JoinGroupRequest, JoinGroupResponse](httpClient, baseURL+JoinGroupProcedure, opts...),
		leaveGroup:     connect.NewClient[LeaveGroupRequest, LeaveGroupResponse](httpClient, baseURL+LeaveGroupProcedure, opts...),
		listGroups:     connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+ListGroupsProcedure, opts...),
		getGroup:       connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+GetGroupProcedure, opts...),
		addCounter:     connect.NewClient[AddCounterRequest, AddCounterResponse](httpClient, baseURL+AddCounterProcedure, opts...),
		increment:      connect.NewClient[IncrementRequest, IncrementResponse](httpClient, baseURL+IncrementProcedure, opts...),
		getLeaderboard: connect.NewClient[GetLeaderboardRequest, GetLeaderboardResponse](httpClient, baseURL+GetLeaderboardProcedure, opts...),
		getCommentary:  connect.NewClient[GetCommentaryRequest, GetCommentaryResponse](httpClient, baseURL+GetCommentaryProcedure, opts...),
		getSnapshot:    connect.NewClient[GetSnapshotRequest, GetSnapshotResponse](httpClient, baseURL+GetSnapshotProcedure, opts...),
		selectGroup:    connect.NewClient[SelectGroupRequest, SelectGroupResponse](httpClient, baseURL+SelectGroupProcedure, opts...),
	}
}

func (c *SquadServiceClient) GetProfile(ctx context.Context, req *connect.Request[GetProfileRequest]) (*connect.Response[GetProfileResponse], error) {
	return c.getProfile.CallUnary(ctx, req)
}

func (c *SquadServiceClient) CreateProfile(ctx context.Context, req *connect.Request[CreateProfileRequest]) (*connect.Response[CreateProfileResponse], error) {
	return c.createProfile.CallUnary(ctx, req)
}

func (c *SquadServiceClient) UpdateProfile(ctx context.Context, req *connect.Request[UpdateProfileRequest]) (*connect.Response[UpdateProfileResponse], error) {
	return c.updateProfile.CallUnary(ctx, req)
}

func (c *SquadServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *SquadServiceClient) JoinGroup(ctx context.Context, req *connect.Request[JoinGroupRequest]) (*connect.Response[JoinGroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

func (c *SquadServiceClient) LeaveGroup(ctx context.Context, req *connect.Request[LeaveGroupRequest]) (*connect.Response[LeaveGroupResponse], error) {
	return c.leaveGroup.CallUnary(ctx, req)
}

func (c *SquadServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *SquadServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *SquadServiceClient) AddCounter(ctx context.Context, req *connect.Request[AddCounterRequest]) (*connect.Response[AddCounterResponse], error) {
	return c.addCounter.CallUnary(ctx, req)
}

func (c *SquadServiceClient) Increment(ctx context.Context, req *connect.Request[IncrementRequest]) (*connect.Response[IncrementResponse], error) {
	return c.increment.CallUnary(ctx, req)
}

func (c *SquadServiceClient) GetLeaderboard(ctx context.Context, req *connect.Request[GetLeaderboardRequest]) (*connect.Response[GetLeaderboardResponse], error) {
	return c.getLeaderboard.CallUnary(ctx, req)
}

func (c *SquadServiceClient) GetCommentary(ctx context.Context, req *connect.Request[GetCommentaryRequest]) (*connect.Response[GetCommentaryResponse], error) {
	return c.getCommentary.CallUnary(ctx, req)
}

func (c *SquadServiceClient) GetSnapshot(ctx context.Context, req *connect.Request[GetSnapshotRequest]) (*connect.Response[GetSnapshotResponse], error) {
	return c.getSnapshot.CallUnary(ctx, req)
}

func (c *SquadServiceClient) SelectGroup(ctx context.Context, req *connect.Request[SelectGroupRequest]) (*connect.Response[SelectGroupResponse], error) {
	return c.selectGroup.CallUnary(ctx, req)
}
