package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/squadstats/internal/stats"
)

var tapCmd = &cobra.Command{
	Use:   "tap [code] [counter]",
	Short: "Count one for yourself",
	Long: `Log one unit on a counter for you. The counter can be given by title,
emoji, id or id prefix.

Examples:
  squad tap K7Q2ZD pushups
  squad tap K7Q2ZD ☕ -n 2`,
	Args: cobra.ExactArgs(2),
	RunE: runTap,
}

var tapTimes int

func init() {
	tapCmd.Flags().IntVarP(&tapTimes, "times", "n", 1, "How many to log")
}

func runTap(cmd *cobra.Command, args []string) error {
	if tapTimes < 1 {
		return fmt.Errorf("--times must be at least 1")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	g, err := a.Squad.GroupByCode(ctx, args[0])
	if err != nil {
		return describe("failed to load group", err)
	}
	c, ok := findCounter(g, args[1])
	if !ok {
		return fmt.Errorf("no counter %q in %q", args[1], g.Name)
	}

	for range tapTimes {
		if _, err := a.Squad.Increment(ctx, g.Code, c.ID); err != nil {
			return describe("failed to log", err)
		}
	}

	p, err := a.Squad.Profile(ctx)
	if err != nil {
		return err
	}
	g, err = a.Squad.GroupByCode(ctx, g.Code)
	if err != nil {
		return err
	}
	mine := 0
	for _, l := range g.Logs {
		if l.CounterID == c.ID && l.UserID == p.ID {
			mine++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s +%d (you: %d, squad: %d)\n", c.Emoji, c.Title, tapTimes, mine, stats.CounterTotal(g.Logs, c.ID))
	return nil
}
