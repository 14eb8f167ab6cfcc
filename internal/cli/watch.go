package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/squadstats/internal/models"
	"github.com/mmynk/squadstats/internal/syncer"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a group's leaderboards live",
	Long: `Poll the shared store and reprint the active group's boards whenever
they change. Stops on Ctrl-C.

Examples:
  squad watch
  squad watch --group K7Q2ZD --interval 5s`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var (
	watchGroup    string
	watchInterval time.Duration
)

func init() {
	watchCmd.Flags().StringVarP(&watchGroup, "group", "g", "", "Invite code or id of the group to follow (default: first group)")
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 0, "Polling interval (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	interval := watchInterval
	if interval <= 0 {
		if interval, err = cfg.Interval(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	var (
		last  string
		ready bool
	)
	show := func(s syncer.Snapshot) {
		g, ok := s.Active()
		if !ok {
			return
		}
		if fp := fingerprint(g); fp != last {
			last = fp
			printBoards(out, g)
		}
	}
	poller := syncer.New(a.Squad,
		syncer.WithInterval(interval),
		syncer.WithNotifier(a.Squad.Notifier()),
		syncer.WithOnRefresh(func(s syncer.Snapshot) {
			if ready {
				show(s)
			}
		}),
		syncer.WithOnError(func(err error) {
			slog.Warn("Refresh failed", "error", err)
		}),
	)

	ctx := cmd.Context()
	snap, err := poller.Refresh(ctx)
	if err != nil {
		return err
	}
	if len(snap.Groups) == 0 {
		fmt.Fprintln(out, "No groups to watch. Create one with: squad group create \"Name\"")
		return nil
	}
	if watchGroup != "" {
		g, err := findGroup(ctx, a.Squad, watchGroup)
		if err != nil {
			return describe("failed to find group", err)
		}
		if err := poller.Select(g.ID); err != nil {
			return describe("failed to follow group", err)
		}
	}
	show(poller.Snapshot())

	// Callbacks only run on the poller goroutine from here on.
	ready = true
	if err := poller.Start(ctx); err != nil {
		return err
	}
	defer poller.Stop()

	<-ctx.Done()
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

// fingerprint changes whenever anything shown on a board does.
func fingerprint(g models.Group) string {
	fp := fmt.Sprintf("%s|%d|%d|%d", g.ID, len(g.Users), len(g.Counters), len(g.Logs))
	for _, u := range g.Users {
		fp += "|" + u.Name
	}
	return fp
}
