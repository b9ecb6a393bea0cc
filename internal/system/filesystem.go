package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zoro11031/webwatcher/internal/common"
)

// FileSystem handles file system operations
type FileSystem struct{}

// NewFileSystem creates a new FileSystem instance
func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

// EnsureDirectory creates a directory (and its parents) with the given
// permissions. If the directory already exists, it does nothing.
func (fs *FileSystem) EnsureDirectory(path string, perms os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists but is not a directory", path)
		}
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check directory %s: %w", path, err)
	}

	if err := os.MkdirAll(path, perms); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// FileExists checks if a file exists
func (fs *FileSystem) FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check if file exists %s: %w", path, err)
}

// DirectoryExists checks if a directory exists
func (fs *FileSystem) DirectoryExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check if directory exists %s: %w", path, err)
}

// DirectoryUsage counts the files and directories below path and sums the
// sizes of the regular files. Entries that vanish mid-walk are skipped.
func (fs *FileSystem) DirectoryUsage(path string) (Usage, error) {
	var usage Usage
	err := filepath.WalkDir(path, func(current string, entry os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && current != path {
				return nil
			}
			return err
		}
		if current == path {
			return nil
		}
		if entry.IsDir() {
			usage.Directories++
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if info.Mode().IsRegular() {
			usage.Files++
			usage.Bytes += info.Size()
		}
		return nil
	})
	if err != nil {
		return Usage{}, fmt.Errorf("failed to measure %s: %w", path, err)
	}
	return usage, nil
}

// criticalPaths may never be removed themselves.
var criticalPaths = []string{
	"/",
	"/bin",
	"/boot",
	"/dev",
	"/etc",
	"/home",
	"/lib",
	"/lib64",
	"/proc",
	"/root",
	"/sbin",
	"/sys",
	"/tmp",
	"/usr",
	"/var",
}

// protectedTrees may not have anything below them removed either.
var protectedTrees = []string{
	"/bin",
	"/boot",
	"/dev",
	"/etc",
	"/lib",
	"/lib64",
	"/proc",
	"/sbin",
	"/sys",
	"/usr",
}

// RemoveDirectory removes a directory and all its contents.
// Safety checks refuse empty, relative and critical system paths as well as
// the user's home directory.
func (fs *FileSystem) RemoveDirectory(path string) error {
	if err := checkRemovable(path); err != nil {
		return err
	}

	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove directory %s: %w", path, err)
	}
	return nil
}

func checkRemovable(path string) error {
	if err := common.ValidateNotEmpty(path); err != nil {
		return fmt.Errorf("refusing to remove: %w", err)
	}
	if err := common.ValidatePath(path); err != nil {
		return fmt.Errorf("refusing to remove: %w", err)
	}

	cleaned := filepath.Clean(path)
	for _, critical := range criticalPaths {
		if cleaned == critical {
			return fmt.Errorf("refusing to remove critical system path: %s", path)
		}
	}
	for _, tree := range protectedTrees {
		if strings.HasPrefix(cleaned, tree+"/") {
			return fmt.Errorf("refusing to remove critical system path: %s", path)
		}
	}

	if home, err := os.UserHomeDir(); err == nil && filepath.Clean(home) == cleaned {
		return fmt.Errorf("refusing to remove home directory: %s", path)
	}
	return nil
}

// ResolveRealPath resolves symlinks in path. Components that do not exist
// yet are kept as given below the deepest existing ancestor.
func ResolveRealPath(path string) (string, error) {
	cleaned := filepath.Clean(path)

	existing := cleaned
	var missing []string
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			for i := len(missing) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, missing[i])
			}
			return resolved, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to resolve %s: %w", path, err)
		}

		parent := filepath.Dir(existing)
		if parent == existing {
			return cleaned, nil
		}
		missing = append(missing, filepath.Base(existing))
		existing = parent
	}
}
