package media

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/AlessioCavassi/Sito-mio-instagram/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Change is a settled filesystem change under the media root.
type Change struct {
	Path string
	Op   string
}

// Watcher watches the media root and reports settled changes, so cards
// whose files were replaced can be remounted.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	root        string
	pending     map[string]pendingChange
	debounceDur time.Duration
	changes     chan Change
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	closed      bool
}

type pendingChange struct {
	op string
	at time.Time
}

// NewWatcher creates a watcher for root. debounce <= 0 uses 300ms.
func NewWatcher(root string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Watcher{
		watcher:     fw,
		root:        root,
		pending:     make(map[string]pendingChange),
		debounceDur: debounce,
		changes:     make(chan Change, 64),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Changes delivers settled changes. Closed when the watcher stops.
func (w *Watcher) Changes() <-chan Change { return w.changes }

// Start adds the root and its subdirectories and begins the event loop.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if addErr := w.watcher.Add(path); addErr != nil {
				logging.Get(logging.CategoryWatcher).Warn("failed to watch %s: %v", path, addErr)
			}
		}
		return nil
	})
	if err != nil {
		w.mu.Lock()
		w.running = false
		w.closed = true
		w.mu.Unlock()
		_ = w.watcher.Close()
		close(w.changes)
		return err
	}
	logging.Watcher("watching media root: %s", w.root)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher, waits for the event loop to exit and releases
// the underlying fsnotify watcher. It is safe on a watcher that was never
// started.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	} else {
		close(w.changes)
	}

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryWatcher).Error("error closing watcher: %v", err)
	}
	logging.Watcher("stopped")
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.changes)

	ticker := time.NewTicker(w.debounceDur / 3)
	defer ticker.Stop()

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
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryWatcher).Error("watcher error: %v", err)
		case <-ticker.C:
			if !w.flush(ctx) {
				return
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	var op string
	switch {
	case event.Op&fsnotify.Create != 0:
		op = "create"
		if isDir, err := statDir(event.Name); err == nil && isDir {
			_ = w.watcher.Add(event.Name)
		}
	case event.Op&fsnotify.Write != 0:
		op = "modify"
	case event.Op&fsnotify.Remove != 0:
		op = "delete"
	case event.Op&fsnotify.Rename != 0:
		op = "rename"
	default:
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = pendingChange{op: op, at: time.Now()}
	w.mu.Unlock()
}

// flush emits changes that have been quiet for the debounce window.
// It reports false if the loop should exit.
func (w *Watcher) flush(ctx context.Context) bool {
	w.mu.Lock()
	now := time.Now()
	var ready []Change
	for path, pc := range w.pending {
		if now.Sub(pc.at) >= w.debounceDur {
			ready = append(ready, Change{Path: path, Op: pc.op})
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, c := range ready {
		select {
		case w.changes <- c:
		case <-ctx.Done():
			return false
		case <-w.stopCh:
			return false
		}
	}
	return true
}

func statDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return fi.IsDir(), nil
}
