package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/squadstats/internal/models"
	"github.com/mmynk/squadstats/internal/squad"
	"github.com/mmynk/squadstats/internal/stats"
)

var counterCmd = &cobra.Command{
	Use:   "counter",
	Short: "Manage a group's counters",
}

var counterAddCmd = &cobra.Command{
	Use:   "add [code] [title]",
	Short: "Add a counter to a group",
	Long: `Add a counter to the group with the given invite code.

Examples:
  squad counter add K7Q2ZD "Pushups"
  squad counter add K7Q2ZD "Coffees" --emoji ☕ --color bg-amber-400`,
	Args: cobra.ExactArgs(2),
	RunE: runCounterAdd,
}

var counterListCmd = &cobra.Command{
	Use:     "list [code]",
	Aliases: []string{"ls"},
	Short:   "List a group's counters",
	Args:    cobra.ExactArgs(1),
	RunE:    runCounterList,
}

var (
	counterEmoji       string
	counterColor       string
	counterDescription string
)

func init() {
	counterAddCmd.Flags().StringVarP(&counterEmoji, "emoji", "e", "", "Counter emoji (default 🏆)")
	counterAddCmd.Flags().StringVarP(&counterColor, "color", "c", "", "Color token (default bg-indigo-400)")
	counterAddCmd.Flags().StringVarP(&counterDescription, "description", "d", "", "Optional description")

	counterCmd.AddCommand(counterAddCmd)
	counterCmd.AddCommand(counterListCmd)
}

func runCounterAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := a.Squad.AddCounter(cmd.Context(), args[0], squad.NewCounter{
		Title:       args[1],
		Description: counterDescription,
		Emoji:       counterEmoji,
		Color:       counterColor,
	})
	if err != nil {
		return describe("failed to add counter", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", c.Emoji, c.Title)
	return nil
}

func runCounterList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	g, err := a.Squad.GroupByCode(cmd.Context(), args[0])
	if err != nil {
		return describe("failed to load group", err)
	}

	out := cmd.OutOrStdout()
	if len(g.Counters) == 0 {
		fmt.Fprintf(out, "No counters in %q yet. Add one with: squad counter add %s \"Title\"\n", g.Name, g.Code)
		return nil
	}

	fmt.Fprintf(out, "\n📊 %s (%d/%d counters)\n", g.Name, len(g.Counters), models.MaxCountersPerGroup)
	fmt.Fprintln(out, strings.Repeat("─", 50))
	for _, c := range g.Counters {
		shortID := c.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		fmt.Fprintf(out, "  %s  %-8s  %-28s  %4d\n", c.Emoji, shortID, truncate(c.Title, 28), stats.CounterTotal(g.Logs, c.ID))
	}
	fmt.Fprintln(out)
	return nil
}

// findCounter matches ref against counter ids, id prefixes, titles
// (ignoring case) and emoji.
func findCounter(g *models.Group, ref string) (models.Counter, bool) {
	if c, ok := g.Counter(ref); ok {
		return c, true
	}
	for _, c := range g.Counters {
		if strings.EqualFold(c.Title, ref) || c.Emoji == ref {
			return c, true
		}
	}
	if len(ref) >= 4 {
		for _, c := range g.Counters {
			if strings.HasPrefix(c.ID, ref) {
				return c, true
			}
		}
	}
	return models.Counter{}, false
}
