package watch

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// pendingWrite tracks a file whose creation or modification has been seen
// but not yet reported.
type pendingWrite struct {
	kind        Kind
	size        int64
	modTime     time.Time
	stableSince time.Time
	timer       *time.Timer
}

func (p *pendingWrite) stop() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// schedule records a write to path and (re)starts its settle clock. A path
// already known as a file settles as Modified, anything else as Created. A
// pending entry keeps its kind: later writes fold into the single event.
func (o *Observer) schedule(path string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.closed {
		return
	}
	o.scheduleLocked(path)
}

// scheduleNew schedules path as Created unless it is already known or
// pending.
func (o *Observer) scheduleNew(path string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.closed {
		return
	}
	_, known := o.files[path]
	_, pending := o.pending[path]
	if known || pending {
		return
	}
	o.scheduleLocked(path)
}

func (o *Observer) scheduleLocked(path string) {
	now := time.Now()
	entry, ok := o.pending[path]
	if !ok {
		kind := Created
		if _, known := o.files[path]; known {
			kind = Modified
		}
		entry = &pendingWrite{kind: kind, size: -1}
		o.pending[path] = entry
	}
	entry.stableSince = now
	if entry.timer == nil {
		entry.timer = time.AfterFunc(o.pollInterval, func() {
			o.check(path)
		})
	}
}

// check polls a pending file. The event is emitted once the file's size and
// modification time have not moved for a full settle window.
func (o *Observer) check(path string) {
	o.mutex.Lock()
	if o.closed {
		o.mutex.Unlock()
		return
	}
	entry, ok := o.pending[path]
	if !ok || entry.timer == nil {
		o.mutex.Unlock()
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// The remove notification decides what, if anything, is reported.
			entry.timer = nil
			o.mutex.Unlock()
			return
		}
		entry.stop()
		delete(o.pending, path)
		o.mutex.Unlock()
		o.fail(fmt.Errorf("failed to inspect %s: %w", path, err))
		return
	}

	now := time.Now()
	if info.Size() != entry.size || !info.ModTime().Equal(entry.modTime) {
		entry.size = info.Size()
		entry.modTime = info.ModTime()
		entry.stableSince = now
	}

	if now.Sub(entry.stableSince) < o.settleWindow {
		entry.timer.Reset(o.pollInterval)
		o.mutex.Unlock()
		return
	}

	entry.timer = nil
	delete(o.pending, path)
	o.files[path] = struct{}{}
	o.enqueueLocked(Event{Kind: entry.kind, Path: path})
	o.mutex.Unlock()
	o.logger.Debug("write settled",
		zap.String("path", path),
		zap.Stringer("kind", entry.kind),
		zap.Int64("size", entry.size))
}
