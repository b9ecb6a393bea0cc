// Package browser locates a Chrome executable and launches it against an
// isolated profile directory.
package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/zoro11031/webwatcher/internal/system"
)

// DefaultProfileDirName is the profile directory created next to the
// webwatcher executable when none is configured.
const DefaultProfileDirName = ".chrome"

// ErrNotInstalled is returned when no usable browser executable is found.
var ErrNotInstalled = errors.New("chrome is not installed")

// ExecutablePath returns the standard Chrome location for an operating
// system as reported by runtime.GOOS.
func ExecutablePath(goos string) (string, bool) {
	switch goos {
	case "windows":
		return `C:\Program Files\Google\Chrome\Application\chrome.exe`, true
	case "darwin":
		return "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome", true
	case "linux":
		return "/usr/bin/google-chrome", true
	default:
		return "", false
	}
}

// FileChecker reports whether a path exists.
type FileChecker interface {
	FileExists(path string) (bool, error)
}

// Resolve picks the executable to launch. A non-empty override wins: a bare
// command name is looked up on PATH, anything else must exist. Otherwise
// the platform default is used if it is installed.
func Resolve(goos, override string, files FileChecker) (string, error) {
	if override != "" {
		if !strings.ContainsAny(override, `/\`) {
			path, err := system.LookupCommand(override)
			if err != nil {
				return "", fmt.Errorf("%w: %v", ErrNotInstalled, err)
			}
			return path, nil
		}
		return checkInstalled(override, files)
	}

	path, ok := ExecutablePath(goos)
	if !ok {
		return "", fmt.Errorf("%w: no default location for %s", ErrNotInstalled, goos)
	}
	return checkInstalled(path, files)
}

func checkInstalled(path string, files FileChecker) (string, error) {
	exists, err := files.FileExists(path)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: %s not found", ErrNotInstalled, path)
	}
	return path, nil
}

// DefaultProfileDir returns the .chrome directory next to the running
// executable.
func DefaultProfileDir() (string, error) {
	executable, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	resolved, err := system.ResolveRealPath(executable)
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(resolved), DefaultProfileDirName), nil
}

// Args returns the command line that opens a new window on profileDir.
func Args(profileDir string, extra []string) []string {
	args := []string{
		"--new-window",
		"--user-data-dir=" + profileDir,
	}
	return append(args, extra...)
}

// Launcher starts browser processes. It does not manage their lifetime.
type Launcher struct {
	runner system.CommandRunner
	logger *zap.Logger
}

// NewLauncher creates a Launcher using runner to spawn processes.
func NewLauncher(runner system.CommandRunner, logger *zap.Logger) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Launcher{runner: runner, logger: logger}
}

// Launch starts executable on profileDir and returns its PID without
// waiting for it to exit.
func (l *Launcher) Launch(executable, profileDir string, extra []string) (int, error) {
	args := Args(profileDir, extra)
	pid, err := l.runner.Start(executable, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to launch browser: %w", err)
	}
	l.logger.Info("browser launched",
		zap.String("executable", executable),
		zap.Strings("args", args),
		zap.Int("pid", pid))
	return pid, nil
}

// Version asks the browser for its version string.
func (l *Launcher) Version(executable string) (string, error) {
	output, err := l.runner.Run(executable, "--version")
	if err != nil {
		return "", fmt.Errorf("failed to query browser version: %w", err)
	}
	return strings.TrimSpace(output), nil
}
