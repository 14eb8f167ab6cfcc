package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/squadstats/internal/app"
	"github.com/mmynk/squadstats/internal/config"
	"github.com/mmynk/squadstats/pkg/logging"
)

var (
	configPath string
	logLevel   string

	// cfg is loaded once per invocation by the root command.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "squad",
	Short: "SquadStats - track shared habits with your friends",
	Long: `SquadStats keeps counters for small groups of friends: create a group,
share its invite code, add counters and tap them whenever you do the thing.

Groups live in the shared store configured in ~/.squadstats/config.yaml
(SQLite file, Redis or Postgres); your profile and group list stay local.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		// The CLI stays quiet unless asked; log_level in the file is for the server.
		level := "warn"
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		logging.SetupWithLevel(logging.ParseLevel(level))

		slog.Debug("Config loaded", "path", cfg.Path(), "shared_store", cfg.SharedStore)
		return nil
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.squadstats/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(counterCmd)
	rootCmd.AddCommand(tapCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(hypeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

// openApp opens the configured stores. Callers must Close the result.
func openApp(cmd *cobra.Command) (*app.App, error) {
	a, err := app.Open(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open stores: %w", err)
	}
	return a, nil
}
