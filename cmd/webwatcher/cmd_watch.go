package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zoro11031/webwatcher/internal/cli"
	"github.com/zoro11031/webwatcher/internal/config"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory without launching the browser",
	Long: `Report changes under an existing directory using the same output as the
default command. The directory defaults to the configured profile directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg.Set(config.KeyProfileDir, args[0])
	}

	ctx, err := cli.NewContext(cfg)
	if err != nil {
		return err
	}
	defer ctx.Close()

	root, err := ctx.ProfileDir()
	if err != nil {
		return err
	}

	observer, err := startObserver(ctx, root)
	if err != nil {
		return err
	}
	defer observer.Close()

	ctx.UI.Infof("Watching %s", observer.Root())
	return cli.Stream(cmd.Context(), observer, ctx.NewFormatter(os.Stdout))
}
