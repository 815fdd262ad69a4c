package store

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDelay coalesces the write bursts of an append or rewrite.
const DefaultReloadDelay = 150 * time.Millisecond

// FileWatcher reloads the store when another process changes the history
// file. The parent directory is watched so atomic renames are seen.
type FileWatcher struct {
	store  *Store
	path   string
	delay  time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	timer   *time.Timer
	stopped chan struct{}
	wg      sync.WaitGroup
}

// NewFileWatcher creates a watcher for path. Call Start to begin watching.
func NewFileWatcher(s *Store, path string, logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileWatcher{
		store:  s,
		path:   filepath.Clean(path),
		delay:  DefaultReloadDelay,
		logger: logger,
	}, nil
}

// SetReloadDelay changes the debounce delay. It must be called before Start.
func (fw *FileWatcher) SetReloadDelay(d time.Duration) {
	fw.delay = d
}

// Start begins watching. Calling Start on a running watcher is a no-op.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.fsw != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(fw.path)); err != nil {
		_ = fsw.Close()
		return err
	}

	fw.fsw = fsw
	fw.stopped = make(chan struct{})
	fw.wg.Add(1)
	go fw.loop(fsw, fw.stopped)
	return nil
}

func (fw *FileWatcher) loop(fsw *fsnotify.Watcher, stopped <-chan struct{}) {
	defer fw.wg.Done()

	for {
		select {
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				fw.schedule()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("history watcher error", "error", err)

		case <-stopped:
			return
		}
	}
}

func (fw *FileWatcher) schedule() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.fsw == nil {
		return
	}
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.delay, fw.reload)
}

func (fw *FileWatcher) reload() {
	fw.logger.Debug("history file changed, reloading", "path", fw.path)
	if err := fw.store.Hydrate(); err != nil {
		fw.logger.Warn("failed to reload history", "path", fw.path, "error", err)
	}
}

// Stop stops watching and cancels any pending reload.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	fsw := fw.fsw
	if fsw == nil {
		fw.mu.Unlock()
		return nil
	}
	fw.fsw = nil
	if fw.timer != nil {
		fw.timer.Stop()
		fw.timer = nil
	}
	close(fw.stopped)
	fw.mu.Unlock()

	err := fsw.Close()
	fw.wg.Wait()
	return err
}
