package models

// Capacity limits enforced by the group repository.
const (
	MaxUsersPerGroup    = 10
	MaxCountersPerGroup = 10
	MaxGroupsPerUser    = 5
)

// Group is a squad of users sharing counters and an event log.
// Code is the lookup key users type to join; ID is the stable identity
// referenced from membership indexes.
type Group struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Users     []User     `json:"users"`
	Counters  []Counter  `json:"counters"`
	Logs      []LogEntry `json:"logs"`
	CreatedAt int64      `json:"createdAt"`
}

// Counter is a named tally (e.g. "Beers Drunk"). Counters are never edited
// or removed once added.
type Counter struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Emoji       string `json:"emoji"`

	// Color is a presentation token chosen by the client (e.g. "bg-indigo-400").
	Color string `json:"color"`

	CreatedAt int64  `json:"createdAt"`
	CreatedBy string `json:"createdBy"`
}

// LogEntry records one unit of a counter for one user. Entries are append-only.
type LogEntry struct {
	ID        string `json:"id"`
	CounterID string `json:"counterId"`
	UserID    string `json:"userId"`
	Timestamp int64  `json:"timestamp"`
}

// Member returns the index of the user with the given id, or -1.
func (g *Group) Member(userID string) int {
	for i, u := range g.Users {
		if u.ID == userID {
			return i
		}
	}
	return -1
}

// Counter returns the counter with the given id.
func (g *Group) Counter(counterID string) (Counter, bool) {
	for _, c := range g.Counters {
		if c.ID == counterID {
			return c, true
		}
	}
	return Counter{}, false
}
