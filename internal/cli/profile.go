package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/squadstats/internal/squad"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit your profile",
	Long: `Show your local profile. Use 'init' to create it and 'set' to change it;
changes are copied into every group you belong to.`,
	Args: cobra.NoArgs,
	RunE: runProfileShow,
}

var profileInitCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create your profile",
	Long: `Create your local profile.

Examples:
  squad profile init "Alice"
  squad profile init "Bob" --avatar 🐻`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileInit,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update your name, avatar or color",
	Long: `Update your profile and copy it into every group you belong to.

Examples:
  squad profile set --name "Alice B."
  squad profile set --avatar 🦊 --color "#10B981"`,
	Args: cobra.NoArgs,
	RunE: runProfileSet,
}

var (
	profileAvatar string
	profileName   string
	profileColor  string
)

func init() {
	profileInitCmd.Flags().StringVarP(&profileAvatar, "avatar", "a", "", "Avatar emoji (default 😎)")

	profileSetCmd.Flags().StringVarP(&profileName, "name", "n", "", "New display name")
	profileSetCmd.Flags().StringVarP(&profileAvatar, "avatar", "a", "", "New avatar emoji")
	profileSetCmd.Flags().StringVarP(&profileColor, "color", "c", "", "New color (hex)")

	profileCmd.AddCommand(profileInitCmd)
	profileCmd.AddCommand(profileSetCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.Squad.Profile(cmd.Context())
	if errors.Is(err, squad.ErrMissingProfile) {
		fmt.Fprintln(cmd.OutOrStdout(), "No profile yet. Create one with: squad profile init \"Your name\"")
		return nil
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", p.Avatar, p.Name)
	fmt.Fprintf(out, "  id:    %s\n", p.ID)
	fmt.Fprintf(out, "  color: %s\n", p.Color)
	return nil
}

func runProfileInit(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.Squad.CreateProfile(cmd.Context(), args[0], profileAvatar)
	if errors.Is(err, squad.ErrProfileExists) {
		return fmt.Errorf("profile already exists, use 'squad profile set' to change it")
	}
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s %s!\n", p.Avatar, p.Name)
	return nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	if profileName == "" && profileAvatar == "" && profileColor == "" {
		return fmt.Errorf("nothing to update: pass --name, --avatar or --color")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.Squad.UpdateProfile(cmd.Context(), squad.ProfileUpdate{
		Name:   profileName,
		Avatar: profileAvatar,
		Color:  profileColor,
	})
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Profile updated: %s %s (%s)\n", p.Avatar, p.Name, p.Color)
	return nil
}
