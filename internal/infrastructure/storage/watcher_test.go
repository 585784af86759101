package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/garyjia/presentor/internal/domain/entity"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func newTestWatcher(t *testing.T, root string) *Watcher {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	w, err := NewWatcher(root, NewBootstrap(afero.NewOsFs(), logger), 10*time.Millisecond, logger)
	require.NoError(t, err)
	return w
}

// waitFor drains events until one matches name or the timeout elapses
func waitFor(t *testing.T, events <-chan entity.ChangeEvent, name string) entity.ChangeEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event channel closed before %s", name)
			if ev.Name == name {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event for %s", name)
		}
	}
}

func TestWatcher_Events(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := filepath.Join(t.TempDir(), "Presentor")
	w := newTestWatcher(t, root)
	defer w.Stop()

	require.NoError(t, w.Start(context.Background()))
	assert.DirExists(t, filepath.Join(root, "images"))

	events, cancel := w.Subscribe()
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("skip"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "deck.json"), []byte("{}"), 0644))

	ev := waitFor(t, events, "deck.json")
	assert.Equal(t, entity.CollectionPresentations, ev.Collection)
	assert.Equal(t, filepath.Join(root, "deck.json"), ev.Path)

	require.NoError(t, os.WriteFile(filepath.Join(root, "images", "x.PNG"), pngHeader, 0644))

	ev = waitFor(t, events, "x.PNG")
	assert.Equal(t, entity.CollectionImages, ev.Collection)

	require.NoError(t, os.Remove(filepath.Join(root, "deck.json")))

	for {
		ev = waitFor(t, events, "deck.json")
		if ev.Op == entity.ChangeRemove {
			break
		}
	}
}

func TestWatcher_StopClosesSubscribers(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := newTestWatcher(t, t.TempDir())
	require.NoError(t, w.Start(context.Background()))

	events, cancel := w.Subscribe()
	w.Stop()
	w.Stop()
	cancel()

	_, ok := <-events
	assert.False(t, ok)

	late, _ := w.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := newTestWatcher(t, t.TempDir())
	w.Stop()
}

func TestWatcher_ContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	w := newTestWatcher(t, t.TempDir())
	require.NoError(t, w.Start(ctx))

	cancel()
	w.Stop()
}

func TestChangeOp(t *testing.T) {
	assert.Equal(t, entity.ChangeCreate, changeOp(fsnotify.Create))
	assert.Equal(t, entity.ChangeWrite, changeOp(fsnotify.Write))
	assert.Equal(t, entity.ChangeRemove, changeOp(fsnotify.Remove|fsnotify.Write))
	assert.Equal(t, entity.ChangeRename, changeOp(fsnotify.Rename))
	assert.Equal(t, "", changeOp(fsnotify.Chmod))
}
