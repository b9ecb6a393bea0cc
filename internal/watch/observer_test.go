package watch

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSettleWindow = 50 * time.Millisecond
	testPollInterval = 10 * time.Millisecond
	eventTimeout     = 3 * time.Second
	quietPeriod      = 300 * time.Millisecond
)

func startObserver(t *testing.T, root string) *Observer {
	t.Helper()
	observer, err := New(root, Options{SettleWindow: testSettleWindow, PollInterval: testPollInterval})
	require.NoError(t, err)
	require.NoError(t, observer.Start())
	t.Cleanup(func() {
		_ = observer.Close()
	})
	return observer
}

func waitForEvent(t *testing.T, observer *Observer) Event {
	t.Helper()
	select {
	case event := <-observer.Events():
		return event
	case err := <-observer.Errors():
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(eventTimeout):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func expectNoEvent(t *testing.T, observer *Observer) {
	t.Helper()
	select {
	case event := <-observer.Events():
		t.Fatalf("unexpected event: %s", event)
	case err := <-observer.Errors():
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(quietPeriod):
	}
}

func TestKindLabels(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Created, "add"},
		{Modified, "change"},
		{Removed, "unlink"},
		{DirCreated, "addDir"},
		{DirRemoved, "unlinkDir"},
		{Kind(42), "Kind(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
	assert.Len(t, Kinds(), 5)
}

func TestNewRejectsMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := New(missing, Options{})
	require.Error(t, err)

	var setupErr *SetupError
	require.True(t, errors.As(err, &setupErr))
	assert.Equal(t, missing, setupErr.Root)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestNewRejectsFileRoot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := New(file, Options{})
	require.ErrorIs(t, err, ErrNotDirectory)
}

func TestStartTwiceFails(t *testing.T) {
	observer := startObserver(t, t.TempDir())
	require.ErrorIs(t, observer.Start(), ErrAlreadyStarted)
}

func TestObserverIgnoresExistingEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "before.txt"), []byte("old"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested", "deeper"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "deeper", "old.db"), []byte("old"), 0o644))

	observer := startObserver(t, dir)
	expectNoEvent(t, observer)

	after := filepath.Join(observer.Root(), "after.txt")
	require.NoError(t, os.WriteFile(after, []byte("new"), 0o644))

	event := waitForEvent(t, observer)
	assert.Equal(t, Event{Kind: Created, Path: after}, event)
	expectNoEvent(t, observer)
}

func TestObserverFileLifecycle(t *testing.T) {
	observer := startObserver(t, t.TempDir())
	path := filepath.Join(observer.Root(), "a.txt")

	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{'a'}, 2*1024*1024), 0o644))
	assert.Equal(t, Event{Kind: Created, Path: path}, waitForEvent(t, observer))
	expectNoEvent(t, observer)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = file.Write([]byte("more"))
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, Event{Kind: Modified, Path: path}, waitForEvent(t, observer))
	expectNoEvent(t, observer)

	require.NoError(t, os.Remove(path))
	assert.Equal(t, Event{Kind: Removed, Path: path}, waitForEvent(t, observer))
	expectNoEvent(t, observer)
}

func TestObserverSettlesChunkedWrites(t *testing.T) {
	observer := startObserver(t, t.TempDir())
	path := filepath.Join(observer.Root(), "chunked.bin")

	file, err := os.Create(path)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := file.Write(bytes.Repeat([]byte{'x'}, 4096))
		require.NoError(t, err)
		time.Sleep(testSettleWindow / 3)
	}
	require.NoError(t, file.Close())

	assert.Equal(t, Event{Kind: Created, Path: path}, waitForEvent(t, observer))
	expectNoEvent(t, observer)
}

func TestObserverDropsFileRemovedBeforeSettling(t *testing.T) {
	observer, err := New(t.TempDir(), Options{SettleWindow: time.Second, PollInterval: testPollInterval})
	require.NoError(t, err)
	require.NoError(t, observer.Start())
	defer observer.Close()

	path := filepath.Join(observer.Root(), "short-lived.tmp")
	require.NoError(t, os.WriteFile(path, []byte("tmp"), 0o644))
	require.NoError(t, os.Remove(path))

	select {
	case event := <-observer.Events():
		t.Fatalf("unexpected event: %s", event)
	case <-time.After(1500 * time.Millisecond):
	}
}

func TestObserverDirectories(t *testing.T) {
	observer := startObserver(t, t.TempDir())
	sub := filepath.Join(observer.Root(), "sub")

	require.NoError(t, os.Mkdir(sub, 0o755))
	assert.Equal(t, Event{Kind: DirCreated, Path: sub}, waitForEvent(t, observer))

	nested := filepath.Join(sub, "nested.txt")
	require.NoError(t, os.WriteFile(nested, []byte("nested"), 0o644))
	assert.Equal(t, Event{Kind: Created, Path: nested}, waitForEvent(t, observer))

	require.NoError(t, os.Remove(nested))
	assert.Equal(t, Event{Kind: Removed, Path: nested}, waitForEvent(t, observer))

	require.NoError(t, os.Remove(sub))
	assert.Equal(t, Event{Kind: DirRemoved, Path: sub}, waitForEvent(t, observer))
	expectNoEvent(t, observer)
}

func TestObserverReportsContentsOfNewTree(t *testing.T) {
	staging := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(staging, "tree", "inner"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staging, "tree", "inner", "leaf.txt"), []byte("leaf"), 0o644))

	observer := startObserver(t, t.TempDir())
	tree := filepath.Join(observer.Root(), "tree")
	require.NoError(t, os.Rename(filepath.Join(staging, "tree"), tree))

	want := []Event{
		{Kind: DirCreated, Path: tree},
		{Kind: DirCreated, Path: filepath.Join(tree, "inner")},
		{Kind: Created, Path: filepath.Join(tree, "inner", "leaf.txt")},
	}
	for _, expected := range want {
		assert.Equal(t, expected, waitForEvent(t, observer))
	}
}

func TestObserverPreservesOrderAcrossPaths(t *testing.T) {
	observer := startObserver(t, t.TempDir())

	names := []string{"one", "two", "three", "four"}
	for _, name := range names {
		require.NoError(t, os.Mkdir(filepath.Join(observer.Root(), name), 0o755))
	}
	for _, name := range names {
		event := waitForEvent(t, observer)
		assert.Equal(t, Event{Kind: DirCreated, Path: filepath.Join(observer.Root(), name)}, event)
	}
}

func TestObserverIgnoresPermissionChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mode.txt")
	require.NoError(t, os.WriteFile(path, []byte("mode"), 0o644))

	observer := startObserver(t, dir)
	require.NoError(t, os.Chmod(filepath.Join(observer.Root(), "mode.txt"), 0o600))
	expectNoEvent(t, observer)
}

func TestObserverFailsWhenRootRemoved(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "root")
	require.NoError(t, os.Mkdir(root, 0o755))

	observer := startObserver(t, root)
	require.NoError(t, os.Remove(observer.Root()))

	select {
	case err := <-observer.Errors():
		require.ErrorIs(t, err, ErrRootRemoved)
	case <-time.After(eventTimeout):
		t.Fatal("timed out waiting for root removal error")
	}
}

func TestObserverForgetsTreeMovedOut(t *testing.T) {
	outside := t.TempDir()
	observer := startObserver(t, t.TempDir())
	tree := filepath.Join(observer.Root(), "tree")
	inner := filepath.Join(tree, "inner")

	require.NoError(t, os.MkdirAll(inner, 0o755))
	assert.Equal(t, Event{Kind: DirCreated, Path: tree}, waitForEvent(t, observer))
	assert.Equal(t, Event{Kind: DirCreated, Path: inner}, waitForEvent(t, observer))

	moved := filepath.Join(outside, "tree")
	require.NoError(t, os.Rename(tree, moved))
	assert.Equal(t, Event{Kind: DirRemoved, Path: tree}, waitForEvent(t, observer))
	expectNoEvent(t, observer)

	require.NoError(t, os.WriteFile(filepath.Join(moved, "inner", "late.txt"), []byte("late"), 0o644))
	expectNoEvent(t, observer)
}

func TestObserverReportsReplaceByRenameAsChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Preferences"), []byte("{}"), 0o644))

	observer := startObserver(t, dir)
	target := filepath.Join(observer.Root(), "Preferences")
	temp := target + ".tmp"

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(temp, []byte(fmt.Sprintf(`{"revision":%d}`, i)), 0o644))
		require.NoError(t, os.Rename(temp, target))

		assert.Equal(t, Event{Kind: Modified, Path: target}, waitForEvent(t, observer))
		expectNoEvent(t, observer)
	}
}

func TestObserverReportsNewFileSavedByRenameOnce(t *testing.T) {
	observer := startObserver(t, t.TempDir())
	target := filepath.Join(observer.Root(), "Local State")
	temp := target + ".tmp"

	require.NoError(t, os.WriteFile(temp, []byte("{}"), 0o644))
	require.NoError(t, os.Rename(temp, target))

	assert.Equal(t, Event{Kind: Created, Path: target}, waitForEvent(t, observer))
	expectNoEvent(t, observer)
}

func TestObserverIgnoresTempFileMovedOut(t *testing.T) {
	outside := t.TempDir()
	observer := startObserver(t, t.TempDir())

	for i := 0; i < 5; i++ {
		temp := filepath.Join(observer.Root(), fmt.Sprintf("journal-%d.tmp", i))
		require.NoError(t, os.WriteFile(temp, []byte("pending"), 0o644))
		require.NoError(t, os.Rename(temp, filepath.Join(outside, filepath.Base(temp))))
	}
	expectNoEvent(t, observer)
}

func TestObserverPreservesFileOrder(t *testing.T) {
	observer := startObserver(t, t.TempDir())
	first := filepath.Join(observer.Root(), "first.txt")
	second := filepath.Join(observer.Root(), "second.txt")

	require.NoError(t, os.WriteFile(first, []byte("1"), 0o644))
	time.Sleep(testSettleWindow / 2)
	require.NoError(t, os.WriteFile(second, []byte("2"), 0o644))

	assert.Equal(t, Event{Kind: Created, Path: first}, waitForEvent(t, observer))
	assert.Equal(t, Event{Kind: Created, Path: second}, waitForEvent(t, observer))
	expectNoEvent(t, observer)
}
