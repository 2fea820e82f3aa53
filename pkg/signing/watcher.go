package signing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// KeyWatcher watches the signing key PEM file and hot-reloads the local
// oracle when the file changes, so key rotation does not require a restart.
// Change bursts are debounced to avoid reloading on partially written files.
type KeyWatcher struct {
	oracle  *LocalOracle
	path    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	debounce time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewKeyWatcher creates a watcher for the key file at path.
func NewKeyWatcher(oracle *LocalOracle, path string) (*KeyWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &KeyWatcher{
		oracle:   oracle,
		path:     path,
		watcher:  watcher,
		logger:   slog.Default().With("component", "signing.watcher"),
		debounce: 100 * time.Millisecond,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine. It watches the key
// file's directory, since editors and rotation scripts typically replace
// the file rather than write it in place.
func (w *KeyWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("key watcher already running")
	}

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}
	w.running = true

	go w.loop(ctx)

	w.logger.Info("key watcher started", "path", w.path)
	return nil
}

// Stop stops the watcher and releases the underlying fsnotify resources.
func (w *KeyWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
	w.watcher.Close()

	w.logger.Info("key watcher stopped")
}

func (w *KeyWatcher) loop(ctx context.Context) {
	var timer *time.Timer

	reload := func() {
		if err := w.oracle.Reload(w.path); err != nil {
			// Keep serving with the previous key on a bad reload.
			w.logger.Error("signing key reload failed", "path", w.path, "error", err)
		}
	}

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
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("key watcher error", "error", err)
		}
	}
}
