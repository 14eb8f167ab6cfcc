package stats

import (
	"fmt"
	"strings"

	"github.com/mmynk/squadstats/internal/models"
)

// Summary renders per-counter, per-user counts as plain text, one line per
// counter:
//
//	Counter "Beers" (🍺): [Alice: 3, Bob: 0]
//
// Users are listed in group order, not ranked.
func Summary(users []models.User, counters []models.Counter, logs []models.LogEntry) string {
	lines := make([]string, 0, len(counters))
	for _, c := range counters {
		counts := make(map[string]int)
		for _, l := range logs {
			if l.CounterID == c.ID {
				counts[l.UserID]++
			}
		}

		parts := make([]string, len(users))
		for i, u := range users {
			parts[i] = fmt.Sprintf("%s: %d", u.Name, counts[u.ID])
		}
		lines = append(lines, fmt.Sprintf("Counter \"%s\" (%s): [%s]", c.Title, c.Emoji, strings.Join(parts, ", ")))
	}
	return strings.Join(lines, "\n")
}
