// Package cli wires configuration, output and the system helpers into the
// pieces each command needs: the resolved browser, the profile directory,
// the observer and the formatter.
package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/zoro11031/webwatcher/internal/browser"
	"github.com/zoro11031/webwatcher/internal/config"
	"github.com/zoro11031/webwatcher/internal/logging"
	"github.com/zoro11031/webwatcher/internal/render"
	"github.com/zoro11031/webwatcher/internal/system"
	"github.com/zoro11031/webwatcher/internal/ui"
	"github.com/zoro11031/webwatcher/internal/watch"
)

// Context holds all dependencies needed by a command
type Context struct {
	Config   *config.Config
	Settings config.Settings
	UI       *ui.UI
	Logger   *zap.Logger
	FS       system.FileSystemManager
	Runner   system.CommandRunner
	// GOOS selects the platform browser location
	GOOS string
}

// NewContext loads settings from cfg and builds the default dependencies
func NewContext(cfg *config.Config) (*Context, error) {
	settings, err := cfg.Load()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(settings)
	if err != nil {
		return nil, err
	}

	u := ui.New()
	if settings.NonInteractive {
		u.SetNonInteractive(true)
	}
	u.SetColorMode(settings.Color)

	return &Context{
		Config:   cfg,
		Settings: settings,
		UI:       u,
		Logger:   logger,
		FS:       system.NewFileSystem(),
		Runner:   system.NewCommandRunner(),
		GOOS:     runtime.GOOS,
	}, nil
}

func newLogger(settings config.Settings) (*zap.Logger, error) {
	level, err := logging.ParseLevel(settings.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.KeyLogLevel, err)
	}
	format, err := logging.ParseFormat(settings.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.KeyLogFormat, err)
	}
	return logging.NewFactory().Create(level, format)
}

// Close flushes the logger
func (c *Context) Close() error {
	return logging.Sync(c.Logger)
}

// ProfileDir returns the absolute profile directory, defaulting to .chrome
// next to the executable.
func (c *Context) ProfileDir() (string, error) {
	dir := c.Settings.ProfileDir
	if dir == "" {
		return browser.DefaultProfileDir()
	}
	absolute, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve profile directory %s: %w", dir, err)
	}
	return absolute, nil
}

// EnsureProfileDir creates the profile directory if needed and returns it.
func (c *Context) EnsureProfileDir() (string, error) {
	dir, err := c.ProfileDir()
	if err != nil {
		return "", err
	}
	if err := c.FS.EnsureDirectory(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// ResolveBrowser returns the browser executable for this platform.
func (c *Context) ResolveBrowser() (string, error) {
	return browser.Resolve(c.GOOS, c.Settings.Browser, c.FS)
}

// Launcher returns a browser launcher using the context's runner.
func (c *Context) Launcher() *browser.Launcher {
	return browser.NewLauncher(c.Runner, c.Logger)
}

// NewObserver creates an observer for root with the configured timings.
func (c *Context) NewObserver(root string) (*watch.Observer, error) {
	return watch.New(root, watch.Options{
		SettleWindow: c.Settings.SettleWindow,
		PollInterval: c.Settings.PollInterval,
		Logger:       c.Logger,
	})
}

// NewFormatter creates a formatter writing to out.
func (c *Context) NewFormatter(out io.Writer) *render.Formatter {
	return render.New(out, FormatterOptions(c.Settings))
}

// FormatterOptions maps settings onto render options.
func FormatterOptions(settings config.Settings) render.Options {
	layout := render.Layout24Hour
	if settings.TimeFormat == "12h" {
		layout = render.Layout12Hour
	}
	return render.Options{
		TimeLayout: layout,
		Color:      render.ColorMode(settings.Color),
	}
}
