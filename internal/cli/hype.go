package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/squadstats/internal/app"
)

var hypeCmd = &cobra.Command{
	Use:   "hype [code]",
	Short: "Ask the AI commentator about a group",
	Long: `Generate a short sports-commentator take on the group's standings.
Needs gemini_api_key in the config or GEMINI_API_KEY in the environment.`,
	Args: cobra.ExactArgs(1),
	RunE: runHype,
}

func runHype(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	g, err := a.Squad.GroupByCode(cmd.Context(), args[0])
	if err != nil {
		return describe("failed to load group", err)
	}

	text := app.Commentator(cmd.Context(), cfg).Comment(cmd.Context(), g.Users, g.Counters, g.Logs)
	fmt.Fprintf(cmd.OutOrStdout(), "🎙  %s\n\n%s\n", g.Name, text)
	return nil
}
