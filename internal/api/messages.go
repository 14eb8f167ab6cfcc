// Package api declares the SquadService wire contract: message types,
// procedure names, the HTTP handler constructor and a typed client.
package api

import "github.com/mmynk/squadstats/internal/models"

type GetProfileRequest struct{}

type GetProfileResponse struct {
	// Profile is nil until one has been created.
	Profile *models.Profile `json:"profile,omitempty"`
}

type CreateProfileRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type CreateProfileResponse struct {
	Profile models.Profile `json:"profile"`
}

// UpdateProfileRequest edits the profile. Empty fields are left unchanged.
type UpdateProfileRequest struct {
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Color  string `json:"color,omitempty"`
}

type UpdateProfileResponse struct {
	Profile models.Profile `json:"profile"`
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type CreateGroupResponse struct {
	Group models.Group `json:"group"`
}

type JoinGroupRequest struct {
	Code string `json:"code"`
}

type JoinGroupResponse struct {
	Group models.Group `json:"group"`
}

type LeaveGroupRequest struct {
	GroupID string `json:"groupId"`
}

type LeaveGroupResponse struct{}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []models.Group `json:"groups"`
}

// GetGroupRequest looks a group up by id or, if GroupID is empty, by code.
type GetGroupRequest struct {
	GroupID string `json:"groupId,omitempty"`
	Code    string `json:"code,omitempty"`
}

type GetGroupResponse struct {
	Group models.Group `json:"group"`
}

type AddCounterRequest struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Emoji       string `json:"emoji,omitempty"`
	Color       string `json:"color,omitempty"`
}

type AddCounterResponse struct {
	Counter models.Counter `json:"counter"`
}

type IncrementRequest struct {
	Code      string `json:"code"`
	CounterID string `json:"counterId"`
}

type IncrementResponse struct {
	Entry models.LogEntry `json:"entry"`
}

// GetLeaderboardRequest returns boards for every counter, or only
// CounterID when set.
type GetLeaderboardRequest struct {
	Code      string `json:"code"`
	CounterID string `json:"counterId,omitempty"`
}

type Standing struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Color  string `json:"color"`
}

type Board struct {
	Counter   models.Counter `json:"counter"`
	Total     int            `json:"total"`
	Standings []Standing     `json:"standings"`
	HasData   bool           `json:"hasData"`
}

type GetLeaderboardResponse struct {
	Boards []Board `json:"boards"`
}

type GetCommentaryRequest struct {
	Code string `json:"code"`
}

type GetCommentaryResponse struct {
	Text string `json:"text"`
}

type GetSnapshotRequest struct{}

type GetSnapshotResponse struct {
	Profile       *models.Profile `json:"profile,omitempty"`
	Groups        []models.Group  `json:"groups"`
	ActiveGroupID string          `json:"activeGroupId,omitempty"`
	State         string          `json:"state"`
	RefreshedAt   int64           `json:"refreshedAt"`
}

type SelectGroupRequest struct {
	GroupID string `json:"groupId"`
}

type SelectGroupResponse struct {
	ActiveGroupID string `json:"activeGroupId"`
}

// GroupScoped is implemented by requests that target a single group.
type GroupScoped interface {
	// GroupRef returns the invite code or group id the request names.
	GroupRef() string
}

func (r *JoinGroupRequest) GroupRef() string { return r.Code }
func (r *LeaveGroupRequest) GroupRef() string { return r.GroupID }
func (r *AddCounterRequest) GroupRef() string { return r.Code }
func (r *IncrementRequest) GroupRef() string { return r.Code }
func (r *GetLeaderboardRequest) GroupRef() string { return r.Code }
func (r *GetCommentaryRequest) GroupRef() string { return r.Code }
func (r *SelectGroupRequest) GroupRef() string { return r.GroupID }

func (r *GetGroupRequest) GroupRef() string {
	if r.Code != "" {
		return r.Code
	}
	return r.GroupID
}
