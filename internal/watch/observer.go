package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	defaultSettleWindow = 2 * time.Second
	defaultPollInterval = 100 * time.Millisecond
	defaultBufferSize   = 64
)

// Options controls observer behavior.
type Options struct {
	// SettleWindow is how long a file must stay unchanged before its
	// creation or modification is reported.
	SettleWindow time.Duration
	// PollInterval is how often a pending file is re-checked.
	PollInterval time.Duration
	// BufferSize is the capacity of the Events channel.
	BufferSize int
	Logger     *zap.Logger
}

// Observer watches one directory tree recursively.
type Observer struct {
	root         string
	settleWindow time.Duration
	pollInterval time.Duration
	logger       *zap.Logger

	watcher *fsnotify.Watcher
	mutex   sync.Mutex
	started bool
	closed  bool
	dirs    map[string]struct{}
	files   map[string]struct{}
	gone    map[string]struct{}
	pending map[string]*pendingWrite
	queue   []Event

	events chan Event
	errors chan error
	wake   chan struct{}
	done   chan struct{}
}

// New validates root and returns an observer for it. The watch is not
// established until Start is called.
func New(root string, options Options) (*Observer, error) {
	resolved, err := resolveRoot(root)
	if err != nil {
		return nil, &SetupError{Root: root, Err: err}
	}

	settleWindow := options.SettleWindow
	if settleWindow <= 0 {
		settleWindow = defaultSettleWindow
	}
	pollInterval := options.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if pollInterval > settleWindow {
		pollInterval = settleWindow
	}
	bufferSize := options.BufferSize
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Observer{
		root:         resolved,
		settleWindow: settleWindow,
		pollInterval: pollInterval,
		logger:       logger.With(zap.String("root", resolved)),
		dirs:         make(map[string]struct{}),
		files:        make(map[string]struct{}),
		gone:         make(map[string]struct{}),
		pending:      make(map[string]*pendingWrite),
		events:       make(chan Event, bufferSize),
		errors:       make(chan error, 4),
		wake:         make(chan struct{}, 1),
		done:         make(chan struct{}),
	}, nil
}

func resolveRoot(root string) (string, error) {
	absolute, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(absolute)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", ErrNotDirectory
	}
	return resolved, nil
}

// Root returns the absolute, symlink-free path being watched.
func (o *Observer) Root() string {
	return o.root
}

// Events returns the channel settled events are delivered on.
func (o *Observer) Events() <-chan Event {
	return o.events
}

// Errors returns the channel fatal watch errors are delivered on. Any value
// received here ends the session.
func (o *Observer) Errors() <-chan error {
	return o.errors
}

// Start registers a watch on every directory under root. Nothing that
// already exists is reported; only changes after Start returns are.
func (o *Observer) Start() error {
	o.mutex.Lock()
	if o.started {
		o.mutex.Unlock()
		return ErrAlreadyStarted
	}
	o.started = true
	o.mutex.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &SetupError{Root: o.root, Err: err}
	}
	o.watcher = watcher

	if err := o.addTree(o.root, false); err != nil {
		_ = watcher.Close()
		return &SetupError{Root: o.root, Err: err}
	}

	o.mutex.Lock()
	watched := len(o.dirs)
	o.mutex.Unlock()
	o.logger.Debug("watch established", zap.Int("directories", watched))

	go o.run()
	go o.deliver()
	return nil
}

// Close stops the watch and releases its resources. Pending writes that
// have not settled are discarded.
func (o *Observer) Close() error {
	o.mutex.Lock()
	if o.closed {
		o.mutex.Unlock()
		return nil
	}
	o.closed = true
	for _, entry := range o.pending {
		entry.stop()
	}
	o.pending = nil
	o.mutex.Unlock()

	close(o.done)
	if o.watcher == nil {
		return nil
	}
	return o.watcher.Close()
}

func (o *Observer) run() {
	for {
		select {
		case event, ok := <-o.watcher.Events:
			if !ok {
				return
			}
			o.handle(event)
		case err, ok := <-o.watcher.Errors:
			if !ok {
				return
			}
			o.fail(fmt.Errorf("watch %s: %w", o.root, err))
		case <-o.done:
			return
		}
	}
}

func (o *Observer) handle(event fsnotify.Event) {
	if event.Name == "" {
		return
	}
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		o.handleRemove(event.Name)
	case event.Has(fsnotify.Create):
		o.handleCreate(event.Name)
	case event.Has(fsnotify.Write):
		o.handleWrite(event.Name)
	default:
		o.logger.Debug("ignoring filesystem event",
			zap.String("path", event.Name),
			zap.String("op", event.Op.String()))
	}
}

func (o *Observer) handleCreate(path string) {
	o.mutex.Lock()
	delete(o.gone, path)
	o.mutex.Unlock()

	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			o.logger.Debug("created path vanished before it was inspected", zap.String("path", path))
			return
		}
		o.fail(fmt.Errorf("failed to inspect %s: %w", path, err))
		return
	}

	if info.IsDir() {
		o.mutex.Lock()
		delete(o.files, path)
		o.mutex.Unlock()
		if err := o.addTree(path, true); err != nil {
			o.fail(err)
		}
		return
	}
	o.schedule(path)
}

func (o *Observer) handleWrite(path string) {
	o.mutex.Lock()
	_, isDir := o.dirs[path]
	o.mutex.Unlock()
	if isDir {
		return
	}
	o.schedule(path)
}

func (o *Observer) handleRemove(path string) {
	if path == o.root {
		o.fail(fmt.Errorf("%w: %s", ErrRootRemoved, path))
		return
	}

	o.mutex.Lock()
	if o.closed {
		o.mutex.Unlock()
		return
	}
	if _, isDir := o.dirs[path]; isDir {
		forgotten := o.forgetTreeLocked(path)
		o.gone[path] = struct{}{}
		o.enqueueLocked(Event{Kind: DirRemoved, Path: path})
		o.mutex.Unlock()
		// A deleted directory loses its watch on its own; a moved one does not.
		for _, dir := range forgotten {
			_ = o.watcher.Remove(dir)
		}
		return
	}

	// A removed directory is announced by its parent and by its own watch.
	if _, seen := o.gone[path]; seen {
		delete(o.gone, path)
		o.mutex.Unlock()
		return
	}

	if entry, pending := o.pending[path]; pending {
		entry.stop()
		delete(o.pending, path)
	}
	if _, known := o.files[path]; !known {
		o.mutex.Unlock()
		o.logger.Debug("dropping removal of unreported file", zap.String("path", path))
		return
	}
	delete(o.files, path)
	o.enqueueLocked(Event{Kind: Removed, Path: path})
	o.mutex.Unlock()
}

// enqueueLocked appends an event for delivery. The caller holds o.mutex.
func (o *Observer) enqueueLocked(event Event) {
	o.queue = append(o.queue, event)
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

// deliver moves queued events onto the events channel so the notification
// reader never blocks on a slow consumer.
func (o *Observer) deliver() {
	for {
		select {
		case <-o.wake:
		case <-o.done:
			return
		}
		for {
			o.mutex.Lock()
			if len(o.queue) == 0 {
				o.mutex.Unlock()
				break
			}
			event := o.queue[0]
			o.queue = o.queue[1:]
			o.mutex.Unlock()

			select {
			case o.events <- event:
			case <-o.done:
				return
			}
		}
	}
}

func (o *Observer) fail(err error) {
	o.logger.Error("watch failed", zap.Error(err))
	select {
	case o.errors <- err:
	default:
	}
}
