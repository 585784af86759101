package storage

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/garyjia/presentor/internal/application/port"
	"github.com/garyjia/presentor/internal/domain/entity"
	"go.uber.org/zap"
)

const (
	subscriberBuffer = 32
	maxTrackedPaths  = 1024
)

// Watcher reports document and image changes under a storage root.
// It keeps no listing state; subscribers re-list when notified.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	dirs        *Bootstrap
	root        string
	imagesDir   string
	debounce    time.Duration
	lastSeen    map[string]time.Time
	subscribers map[int]chan entity.ChangeEvent
	nextID      int
	running     bool
	closed      bool
	stopCh      chan struct{}
	doneCh      chan struct{}
	logger      *zap.Logger
}

var _ port.ChangeWatcher = (*Watcher)(nil)

// NewWatcher creates a Watcher for root. Events for the same path and operation
// arriving within debounce of each other are collapsed.
func NewWatcher(root string, dirs *Bootstrap, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ioError("failed to create watcher", root, err)
	}

	return &Watcher{
		watcher:     fw,
		dirs:        dirs,
		root:        filepath.Clean(root),
		imagesDir:   filepath.Clean(ImagesDir(root)),
		debounce:    debounce,
		lastSeen:    make(map[string]time.Time),
		subscribers: make(map[int]chan entity.ChangeEvent),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		logger:      logger,
	}, nil
}

// Start provisions the root and images directories, registers them and
// begins delivering events. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.closed {
		return nil
	}

	for _, dir := range []string{w.root, w.imagesDir} {
		if err := w.dirs.EnsureDirectory(dir); err != nil {
			return err
		}
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Error("Failed to watch directory",
				zap.String("path", dir),
				zap.Error(err))
			return ioError("failed to watch directory", dir, err)
		}
	}

	w.running = true
	go w.run(ctx)

	w.logger.Info("Watching storage root",
		zap.String("root", w.root))

	return nil
}

// Subscribe returns a channel of change events and a func that cancels the
// subscription. Slow subscribers miss events rather than block the watcher.
func (w *Watcher) Subscribe() (<-chan entity.ChangeEvent, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch := make(chan entity.ChangeEvent, subscriberBuffer)
	if w.closed {
		close(ch)
		return ch, func() {}
	}

	id := w.nextID
	w.nextID++
	w.subscribers[id] = ch

	return ch, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if sub, ok := w.subscribers[id]; ok {
			delete(w.subscribers, id)
			close(sub)
		}
	}
}

// Stop ends event delivery, closes all subscriber channels and releases the
// underlying watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	running := w.running
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("Failed to close watcher", zap.Error(err))
	}

	w.mu.Lock()
	for id, sub := range w.subscribers {
		delete(w.subscribers, id)
		close(sub)
	}
	w.mu.Unlock()

	w.logger.Info("Stopped watching storage root",
		zap.String("root", w.root))
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if change, ok := w.translate(event); ok {
				w.publish(change)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

// translate maps a raw event to a ChangeEvent, dropping paths that the
// listings would not report.
func (w *Watcher) translate(event fsnotify.Event) (entity.ChangeEvent, bool) {
	op := changeOp(event.Op)
	if op == "" {
		return entity.ChangeEvent{}, false
	}

	name := filepath.Base(event.Name)
	change := entity.ChangeEvent{
		Op:   op,
		Name: name,
		Path: event.Name,
		At:   time.Now(),
	}

	switch filepath.Dir(event.Name) {
	case w.root:
		if !entity.IsPresentationName(name) {
			return entity.ChangeEvent{}, false
		}
		change.Collection = entity.CollectionPresentations
	case w.imagesDir:
		if !entity.IsImageName(name) {
			return entity.ChangeEvent{}, false
		}
		change.Collection = entity.CollectionImages
	default:
		return entity.ChangeEvent{}, false
	}

	return change, true
}

func (w *Watcher) publish(change entity.ChangeEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := change.Op + ":" + change.Path
	if last, ok := w.lastSeen[key]; ok && change.At.Sub(last) < w.debounce {
		return
	}
	w.lastSeen[key] = change.At
	if len(w.lastSeen) > maxTrackedPaths {
		for k, seen := range w.lastSeen {
			if change.At.Sub(seen) >= w.debounce {
				delete(w.lastSeen, k)
			}
		}
	}

	for id, sub := range w.subscribers {
		select {
		case sub <- change:
		default:
			w.logger.Debug("Dropped change event for slow subscriber",
				zap.Int("subscriber", id),
				zap.String("path", change.Path))
		}
	}
}

// changeOp picks the most significant operation; chmod-only events are ignored
func changeOp(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Remove):
		return entity.ChangeRemove
	case op.Has(fsnotify.Rename):
		return entity.ChangeRename
	case op.Has(fsnotify.Create):
		return entity.ChangeCreate
	case op.Has(fsnotify.Write):
		return entity.ChangeWrite
	}
	return ""
}
