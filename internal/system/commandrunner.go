package system

import (
	"fmt"
	"os/exec"
)

// CommandRunner defines an interface for running system commands.
type CommandRunner interface {
	// Run executes a command to completion and returns its combined output.
	Run(name string, args ...string) (string, error)
	// Start spawns a command without waiting for it and returns its PID.
	Start(name string, args ...string) (int, error)
}

// ExecCommandRunner executes commands using os/exec.
type ExecCommandRunner struct{}

// NewCommandRunner returns a default command runner implementation.
func NewCommandRunner() CommandRunner {
	return &ExecCommandRunner{}
}

// Run executes a command and returns its combined output.
func (r *ExecCommandRunner) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// Start spawns the command detached from our stdio. The child is reaped in
// the background so it never lingers as a zombie.
func (r *ExecCommandRunner) Start(name string, args ...string) (int, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start %s: %w", name, err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return cmd.Process.Pid, nil
}

// LookupCommand resolves a command name on PATH.
func LookupCommand(command string) (string, error) {
	path, err := exec.LookPath(command)
	if err != nil {
		return "", fmt.Errorf("command %s not found: %w", command, err)
	}
	return path, nil
}

// CommandExists checks if a command is available in PATH
func CommandExists(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
