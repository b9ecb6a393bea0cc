package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zoro11031/webwatcher/internal/browser"
	"github.com/zoro11031/webwatcher/internal/cli"
	"github.com/zoro11031/webwatcher/internal/config"
	"github.com/zoro11031/webwatcher/internal/ui"
	"github.com/zoro11031/webwatcher/internal/watch"
	"github.com/zoro11031/webwatcher/pkg/version"
)

var cfg = config.New()

var rootCmd = &cobra.Command{
	Use:   "webwatcher [-- browser flags...]",
	Short: "Launch Chrome on a private profile and log every file it touches",
	Long: `webwatcher starts Google Chrome with an isolated profile directory and prints
one line per filesystem change made under that directory:

  14:05:07 -> ADD       /path/to/.chrome/Default/Cookies (0.02 mb)

Creations and modifications are reported once the file has stopped changing.
Arguments after -- are passed to the browser.

Settings can also be supplied as WEBWATCHER_* environment variables, for
example WEBWATCHER_PROFILE_DIR or WEBWATCHER_SETTLE_WINDOW.`,
	SilenceUsage:      true, // We handle errors manually, but silence usage on error
	SilenceErrors:     true, // We format errors ourselves for consistent output
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: bindFlags,
	RunE:              runBrowser,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String(config.FlagName(config.KeyProfileDir), "", "profile directory (default: .chrome next to the executable)")
	flags.String(config.FlagName(config.KeyBrowser), "", "browser executable path or name on PATH")
	flags.String(config.FlagName(config.KeySettleWindow), config.Defaults[config.KeySettleWindow], "how long a file must stay unchanged before it is reported")
	flags.String(config.FlagName(config.KeyPollInterval), config.Defaults[config.KeyPollInterval], "how often pending files are re-checked")
	flags.String(config.FlagName(config.KeyTimeFormat), config.Defaults[config.KeyTimeFormat], "timestamp format: 24h or 12h")
	flags.String(config.FlagName(config.KeyColor), config.Defaults[config.KeyColor], "colorize output: auto, always or never")
	flags.String(config.FlagName(config.KeyLogLevel), config.Defaults[config.KeyLogLevel], "diagnostic log level: debug, info, warn or error")
	flags.String(config.FlagName(config.KeyLogFormat), config.Defaults[config.KeyLogFormat], "diagnostic log format: console or structured")
	flags.Bool(config.FlagName(config.KeyNonInteractive), false, "never prompt; commands that need confirmation fail")

	rootCmd.AddCommand(versionCmd)
}

func bindFlags(cmd *cobra.Command, args []string) error {
	return cfg.BindFlags(cmd.Root().PersistentFlags())
}

func runBrowser(cmd *cobra.Command, args []string) error {
	ctx, err := cli.NewContext(cfg)
	if err != nil {
		return err
	}
	defer ctx.Close()

	executable, err := ctx.ResolveBrowser()
	if err != nil {
		return err
	}

	profileDir, err := ctx.EnsureProfileDir()
	if err != nil {
		return fmt.Errorf("failed to prepare profile directory: %w", err)
	}

	// Watch first so the browser's first writes are not missed.
	observer, err := startObserver(ctx, profileDir)
	if err != nil {
		return err
	}
	defer observer.Close()

	pid, err := ctx.Launcher().Launch(executable, profileDir, args)
	if err != nil {
		return err
	}
	ctx.UI.Infof("Launched %s (pid %d)", executable, pid)
	ctx.UI.Infof("Watching %s", observer.Root())

	return cli.Stream(cmd.Context(), observer, ctx.NewFormatter(os.Stdout))
}

func startObserver(ctx *cli.Context, root string) (*watch.Observer, error) {
	observer, err := ctx.NewObserver(root)
	if err != nil {
		return nil, err
	}
	if err := observer.Start(); err != nil {
		return nil, err
	}
	return observer, nil
}

func reportError(u *ui.UI, err error) {
	if errors.Is(err, browser.ErrNotInstalled) {
		u.Error("Chrome is not installed in your computer!")
	}
	u.Errorf("Error: %v", err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(ui.New(), err)
		os.Exit(1)
	}
}
