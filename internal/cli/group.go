package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/squadstats/internal/models"
	"github.com/mmynk/squadstats/internal/squad"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage your groups",
	Long:  `Create, join, leave and list the groups you belong to.`,
}

var groupCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a group",
	Long: `Create a group and print its invite code.

Examples:
  squad group create "Gym Rats"`,
	Args: cobra.ExactArgs(1),
	RunE: runGroupCreate,
}

var groupJoinCmd = &cobra.Command{
	Use:   "join [code]",
	Short: "Join a group by invite code",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupJoin,
}

var groupLeaveCmd = &cobra.Command{
	Use:     "leave [code-or-id]",
	Aliases: []string{"rm"},
	Short:   "Leave a group",
	Args:    cobra.ExactArgs(1),
	RunE:    runGroupLeave,
}

var groupListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your groups",
	Args:    cobra.NoArgs,
	RunE:    runGroupList,
}

func init() {
	groupCmd.AddCommand(groupCreateCmd)
	groupCmd.AddCommand(groupJoinCmd)
	groupCmd.AddCommand(groupLeaveCmd)
	groupCmd.AddCommand(groupListCmd)
}

func runGroupCreate(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	g, err := a.Squad.CreateGroup(cmd.Context(), args[0])
	if err != nil {
		return describe("failed to create group", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %q. Invite code: %s\n", g.Name, g.Code)
	return nil
}

func runGroupJoin(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	g, err := a.Squad.JoinGroup(cmd.Context(), args[0])
	if err != nil {
		return describe("failed to join group", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Joined %q (%d/%d members)\n", g.Name, len(g.Users), models.MaxUsersPerGroup)
	return nil
}

func runGroupLeave(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	id := args[0]
	name := id
	if g, err := findGroup(ctx, a.Squad, args[0]); err == nil {
		id, name = g.ID, g.Name
	}

	if err := a.Squad.LeaveGroup(ctx, id); err != nil {
		return describe("failed to leave group", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Left %q\n", name)
	return nil
}

func runGroupList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	groups, err := a.Squad.Groups(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(groups) == 0 {
		fmt.Fprintln(out, "No groups yet. Create one with: squad group create \"Name\"")
		return nil
	}

	fmt.Fprintf(out, "\n👥 Groups (%d/%d)\n", len(groups), models.MaxGroupsPerUser)
	fmt.Fprintln(out, strings.Repeat("─", 50))
	for _, g := range groups {
		fmt.Fprintf(out, "  %-6s  %-24s  %2d members  %2d counters\n", g.Code, truncate(g.Name, 24), len(g.Users), len(g.Counters))
	}
	fmt.Fprintln(out)
	return nil
}

// findGroup resolves an invite code or a group id.
func findGroup(ctx context.Context, c *squad.Client, ref string) (*models.Group, error) {
	g, err := c.GroupByCode(ctx, ref)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, squad.ErrNotFound) {
		return nil, err
	}
	return c.GroupByID(ctx, ref)
}

// describe turns squad errors into messages for a terminal.
func describe(action string, err error) error {
	var hint string
	switch {
	case errors.Is(err, squad.ErrMissingProfile):
		hint = "create a profile first: squad profile init \"Your name\""
	case errors.Is(err, squad.ErrNotFound):
		hint = "no such group or counter"
	case errors.Is(err, squad.ErrAlreadyMember):
		hint = "you are already in this group"
	case errors.Is(err, squad.ErrGroupFull):
		hint = fmt.Sprintf("the group already has %d members", models.MaxUsersPerGroup)
	case errors.Is(err, squad.ErrCapacityExceeded):
		hint = "limit reached"
	case errors.Is(err, squad.ErrNotMember):
		hint = "you are not a member of this group"
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
	return fmt.Errorf("%s: %s: %w", action, hint, err)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
