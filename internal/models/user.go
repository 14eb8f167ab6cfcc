package models

// Profile is the local user's identity.
// It is created once per installation and only ever edited by its owner.
type Profile struct {
	// ID is the unique identifier for the profile (UUID format).
	ID string `json:"id"`

	// Name is the display name shown on leaderboards.
	Name string `json:"name"`

	// Avatar is an emoji or image reference.
	Avatar string `json:"avatar"`

	// Color is a hex color (e.g. "#3b82f6") used for charts.
	Color string `json:"color"`
}

// User is a member of a group: a copy of a Profile taken when the member
// joined, refreshed whenever the profile is edited.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Color  string `json:"color"`

	// JoinedAt is set once at join time and survives profile edits.
	JoinedAt int64 `json:"joinedAt"`
}

// AsUser copies the profile into a group member record.
func (p Profile) AsUser(joinedAt int64) User {
	return User{
		ID:       p.ID,
		Name:     p.Name,
		Avatar:   p.Avatar,
		Color:    p.Color,
		JoinedAt: joinedAt,
	}
}
