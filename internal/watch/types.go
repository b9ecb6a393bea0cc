package watch

import (
	"errors"
	"fmt"
)

// Kind classifies a filesystem mutation.
type Kind int

const (
	Created Kind = iota
	Modified
	Removed
	DirCreated
	DirRemoved
)

var kindNames = map[Kind]string{
	Created:    "add",
	Modified:   "change",
	Removed:    "unlink",
	DirCreated: "addDir",
	DirRemoved: "unlinkDir",
}

// String returns the kind's log label.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsDir reports whether the kind describes a directory.
func (k Kind) IsDir() bool {
	return k == DirCreated || k == DirRemoved
}

// Kinds returns every kind the observer can emit, in declaration order.
func Kinds() []Kind {
	return []Kind{Created, Modified, Removed, DirCreated, DirRemoved}
}

// Event is a single settled filesystem mutation. Path is absolute.
type Event struct {
	Kind Kind
	Path string
}

func (e Event) String() string {
	return e.Kind.String() + " " + e.Path
}

var (
	// ErrNotDirectory is returned when the watch root is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrRootRemoved is reported on Errors when the watch root disappears.
	ErrRootRemoved = errors.New("watch root was removed")

	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("observer already started")
)

// SetupError reports that the watch session could not be established.
type SetupError struct {
	Root string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("failed to watch %s: %v", e.Root, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
