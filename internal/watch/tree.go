package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// addTree registers a watch on dir and every directory beneath it. Without
// report the files found are only remembered, so that later writes to them
// are changes. When report is set the tree is new: each directory found is
// reported as DirCreated and each unknown file is scheduled as Created. Errors below dir are
// logged and skipped; an error on dir itself is returned only for the
// initial walk.
func (o *Observer) addTree(dir string, report bool) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && !report {
				return err
			}
			if !os.IsNotExist(err) {
				o.logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
			}
			return nil
		}

		if !entry.IsDir() {
			if report {
				o.scheduleNew(path)
				return nil
			}
			o.mutex.Lock()
			o.files[path] = struct{}{}
			o.mutex.Unlock()
			return nil
		}

		if err := o.watcher.Add(path); err != nil {
			if path == dir && !report {
				return err
			}
			if !os.IsNotExist(err) {
				o.logger.Warn("watch add failed", zap.String("path", path), zap.Error(err))
			}
			return fs.SkipDir
		}

		o.mutex.Lock()
		if o.closed {
			o.mutex.Unlock()
			return fs.SkipAll
		}
		_, known := o.dirs[path]
		o.dirs[path] = struct{}{}
		if report && !known {
			o.enqueueLocked(Event{Kind: DirCreated, Path: path})
		}
		o.mutex.Unlock()

		o.logger.Debug("watch added", zap.String("path", path))
		return nil
	})
}

// forgetTreeLocked drops dir, its known subdirectories and any pending
// writes beneath it, returning the directories whose watches should be
// removed. The caller holds o.mutex.
func (o *Observer) forgetTreeLocked(dir string) []string {
	prefix := dir + string(filepath.Separator)
	var forgotten []string
	for path := range o.dirs {
		if path == dir || strings.HasPrefix(path, prefix) {
			delete(o.dirs, path)
			forgotten = append(forgotten, path)
		}
	}
	for path := range o.files {
		if strings.HasPrefix(path, prefix) {
			delete(o.files, path)
		}
	}
	for path, entry := range o.pending {
		if strings.HasPrefix(path, prefix) {
			entry.stop()
			delete(o.pending, path)
		}
	}
	return forgotten
}
