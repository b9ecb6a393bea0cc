package system

import (
	"strings"
	"sync"
)

// MockCommandRunner records commands instead of executing them.
type MockCommandRunner struct {
	mu      sync.Mutex
	Outputs map[string]string // keyed by "name arg1 arg2"
	Err     error
	Ran     [][]string
	Started [][]string
	NextPID int
}

// NewMockCommandRunner creates a new MockCommandRunner.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		Outputs: make(map[string]string),
		NextPID: 1000,
	}
}

// Run records the command and returns the canned output for it.
func (m *MockCommandRunner) Run(name string, args ...string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	command := append([]string{name}, args...)
	m.Ran = append(m.Ran, command)
	return m.Outputs[strings.Join(command, " ")], m.Err
}

// Start records the command and hands out increasing PIDs.
func (m *MockCommandRunner) Start(name string, args ...string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.Started = append(m.Started, append([]string{name}, args...))
	m.NextPID++
	return m.NextPID, nil
}
