package system

import "os"

// FileSystemManager defines the interface for file system operations.
// This allows for mocking the file system in tests.
type FileSystemManager interface {
	FileExists(path string) (bool, error)
	DirectoryExists(path string) (bool, error)
	EnsureDirectory(path string, perms os.FileMode) error
	RemoveDirectory(path string) error
	DirectoryUsage(path string) (Usage, error)
}

// Usage summarizes the regular files below a directory.
type Usage struct {
	Files       int
	Directories int
	Bytes       int64
}
