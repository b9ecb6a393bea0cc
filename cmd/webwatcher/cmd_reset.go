package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zoro11031/webwatcher/internal/cli"
)

var resetForce bool

var errConfirmationRequired = errors.New("reset needs confirmation: rerun with --force")

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the browser profile",
	Long: `Delete the profile directory so the next launch starts from a clean profile.

You will be asked to confirm unless --force is given. System directories and
your home directory are never removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := cli.NewContext(cfg)
		if err != nil {
			return err
		}
		defer ctx.Close()
		return resetProfile(ctx, resetForce)
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func resetProfile(ctx *cli.Context, force bool) error {
	profileDir, err := ctx.ProfileDir()
	if err != nil {
		return err
	}

	exists, err := ctx.FS.DirectoryExists(profileDir)
	if err != nil {
		return err
	}
	if !exists {
		ctx.UI.Infof("Profile directory %s does not exist", profileDir)
		return nil
	}

	if !force {
		if ctx.UI.IsNonInteractive() {
			return errConfirmationRequired
		}
		ctx.UI.Header("Reset Browser Profile")
		ctx.UI.Warning("This will delete the profile directory and everything in it")
		ctx.UI.Warningf("  %s", profileDir)

		confirm, err := ctx.UI.PromptYesNo("Are you sure you want to reset?", false)
		if err != nil {
			return err
		}
		if !confirm {
			ctx.UI.Info("Reset cancelled")
			return nil
		}
	}

	ctx.UI.Info("Removing profile directory...")
	if err := ctx.FS.RemoveDirectory(profileDir); err != nil {
		return fmt.Errorf("failed to remove profile: %w", err)
	}
	ctx.UI.Successf("✓ Profile deleted: %s", profileDir)
	return nil
}
