package system

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// MockFileSystem is an in-memory FileSystemManager for tests. Paths in
// Files map to their sizes; Dirs holds known directories.
type MockFileSystem struct {
	mu      sync.Mutex
	Files   map[string]int64
	Dirs    map[string]bool
	Removed []string
}

// NewMockFileSystem creates a new MockFileSystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files: make(map[string]int64),
		Dirs:  make(map[string]bool),
	}
}

// FileExists reports whether path was registered as a file or directory.
func (m *MockFileSystem) FileExists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, isFile := m.Files[path]
	return isFile || m.Dirs[path], nil
}

// DirectoryExists reports whether path was registered as a directory.
func (m *MockFileSystem) DirectoryExists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Dirs[path], nil
}

// EnsureDirectory registers path and its parents as directories.
func (m *MockFileSystem) EnsureDirectory(path string, perms os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for current := filepath.Clean(path); ; current = filepath.Dir(current) {
		m.Dirs[current] = true
		if filepath.Dir(current) == current {
			return nil
		}
	}
}

// RemoveDirectory applies the real safety checks, then forgets everything
// under path.
func (m *MockFileSystem) RemoveDirectory(path string) error {
	if err := checkRemovable(path); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := filepath.Clean(path) + string(filepath.Separator)
	for dir := range m.Dirs {
		if dir == path || strings.HasPrefix(dir, prefix) {
			delete(m.Dirs, dir)
		}
	}
	for file := range m.Files {
		if strings.HasPrefix(file, prefix) {
			delete(m.Files, file)
		}
	}
	m.Removed = append(m.Removed, path)
	return nil
}

// DirectoryUsage sums the registered files below path.
func (m *MockFileSystem) DirectoryUsage(path string) (Usage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := filepath.Clean(path) + string(filepath.Separator)
	var usage Usage
	for dir := range m.Dirs {
		if strings.HasPrefix(dir, prefix) {
			usage.Directories++
		}
	}
	for file, size := range m.Files {
		if strings.HasPrefix(file, prefix) {
			usage.Files++
			usage.Bytes += size
		}
	}
	return usage, nil
}
