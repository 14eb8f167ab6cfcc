// Package stats turns a group's raw event log into per-user totals and
// rankings. Everything here is a pure function of its inputs and is
// recomputed on every call.
package stats

import (
	"sort"

	"github.com/mmynk/squadstats/internal/models"
)

// Standing is one user's row on a counter leaderboard.
type Standing struct {
	UserID string
	Name   string
	Count  int
	Color  string
}

// CounterTotal returns the number of log entries for counterID.
func CounterTotal(logs []models.LogEntry, counterID string) int {
	total := 0
	for _, l := range logs {
		if l.CounterID == counterID {
			total++
		}
	}
	return total
}

// Leaderboard ranks every user by their log count for counterID, highest
// first. Ties keep the order of users. When all counts are zero there is
// nothing to rank: it returns nil and false ("no data yet").
//
// Entries from users no longer in the group are not ranked but still count
// toward CounterTotal.
func Leaderboard(users []models.User, logs []models.LogEntry, counterID string) ([]Standing, bool) {
	counts := make(map[string]int, len(users))
	for _, l := range logs {
		if l.CounterID == counterID {
			counts[l.UserID]++
		}
	}

	board := make([]Standing, len(users))
	hasData := false
	for i, u := range users {
		board[i] = Standing{
			UserID: u.ID,
			Name:   u.Name,
			Count:  counts[u.ID],
			Color:  u.Color,
		}
		if board[i].Count > 0 {
			hasData = true
		}
	}
	if !hasData {
		return nil, false
	}

	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Count > board[j].Count
	})
	return board, hasData
}

// Board is the aggregated view of a single counter.
type Board struct {
	Counter   models.Counter
	Total     int
	Standings []Standing
	HasData   bool
}

// Boards computes a Board for every counter of g, in counter order.
func Boards(g models.Group) []Board {
	boards := make([]Board, 0, len(g.Counters))
	for _, c := range g.Counters {
		standings, ok := Leaderboard(g.Users, g.Logs, c.ID)
		boards = append(boards, Board{
			Counter:   c,
			Total:     CounterTotal(g.Logs, c.ID),
			Standings: standings,
			HasData:   ok,
		})
	}
	return boards
}
