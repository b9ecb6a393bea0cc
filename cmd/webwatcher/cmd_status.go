package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/zoro11031/webwatcher/internal/cli"
	"github.com/zoro11031/webwatcher/internal/render"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show browser and profile status",
	Long:  `Display the resolved browser, the profile directory and what it currently holds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := cli.NewContext(cfg)
		if err != nil {
			return err
		}
		defer ctx.Close()
		return showStatus(ctx)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func showStatus(ctx *cli.Context) error {
	ctx.UI.Header("webwatcher Status")

	ctx.UI.Field("Platform", fmt.Sprintf("%s/%s", ctx.GOOS, runtime.GOARCH))
	executable, err := ctx.ResolveBrowser()
	if err != nil {
		ctx.UI.Field("Browser", "not installed")
		ctx.UI.Warningf("%v", err)
	} else {
		ctx.UI.Field("Browser", executable)
		if browserVersion, err := ctx.Launcher().Version(executable); err != nil {
			ctx.UI.Warningf("Could not read browser version: %v", err)
		} else {
			ctx.UI.Field("Version", browserVersion)
		}
	}

	profileDir, err := ctx.ProfileDir()
	if err != nil {
		return err
	}
	ctx.UI.Field("Profile", profileDir)

	exists, err := ctx.FS.DirectoryExists(profileDir)
	if err != nil {
		return err
	}
	if !exists {
		ctx.UI.Field("Contents", "not created yet")
	} else {
		usage, err := ctx.FS.DirectoryUsage(profileDir)
		if err != nil {
			return err
		}
		ctx.UI.Field("Contents", fmt.Sprintf("%d files, %d directories", usage.Files, usage.Directories))
		ctx.UI.Field("Size", render.FormatSize(usage.Bytes))
	}

	ctx.UI.Separator()
	ctx.UI.Field("Settle window", ctx.Settings.SettleWindow.String())
	ctx.UI.Field("Poll interval", ctx.Settings.PollInterval.String())
	ctx.UI.Field("Time format", ctx.Settings.TimeFormat)
	return nil
}
