package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/squadstats/internal/models"
	"github.com/mmynk/squadstats/internal/stats"
)

var boardCmd = &cobra.Command{
	Use:   "board [code]",
	Short: "Show a group's leaderboards",
	Long: `Show the standings for every counter in a group, or one counter.

Examples:
  squad board K7Q2ZD
  squad board K7Q2ZD --counter pushups`,
	Args: cobra.ExactArgs(1),
	RunE: runBoard,
}

var boardCounter string

func init() {
	boardCmd.Flags().StringVarP(&boardCounter, "counter", "c", "", "Only show this counter")
}

func runBoard(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	g, err := a.Squad.GroupByCode(cmd.Context(), args[0])
	if err != nil {
		return describe("failed to load group", err)
	}

	if boardCounter != "" {
		c, ok := findCounter(g, boardCounter)
		if !ok {
			return fmt.Errorf("no counter %q in %q", boardCounter, g.Name)
		}
		g.Counters = []models.Counter{c}
	}

	printBoards(cmd.OutOrStdout(), *g)
	return nil
}

func printBoards(out io.Writer, g models.Group) {
	fmt.Fprintf(out, "\n🏟  %s  [%s]  %d members\n", g.Name, g.Code, len(g.Users))
	fmt.Fprintln(out, strings.Repeat("─", 50))

	boards := stats.Boards(g)
	if len(boards) == 0 {
		fmt.Fprintf(out, "  No counters yet. Add one with: squad counter add %s \"Title\"\n\n", g.Code)
		return
	}

	for _, b := range boards {
		fmt.Fprintf(out, "%s %s (total %d)\n", b.Counter.Emoji, b.Counter.Title, b.Total)
		if !b.HasData {
			fmt.Fprintln(out, "  no logs yet")
			continue
		}
		for i, s := range b.Standings {
			fmt.Fprintf(out, "  %2d. %-20s %4d\n", i+1, truncate(s.Name, 20), s.Count)
		}
	}
	fmt.Fprintln(out)
}
