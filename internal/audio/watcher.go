package audio

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher drops cached sounds when their files change on disk.
type Watcher struct {
	mu      sync.Mutex
	logger  *slog.Logger
	player  *Player
	watcher *fsnotify.Watcher
	paths   map[string]bool
	dirs    map[string]bool
	done    chan struct{}
}

// NewWatcher creates a cache watcher for player.
func NewWatcher(player *Player, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger: logger,
		player: player,
		paths:  make(map[string]bool),
		dirs:   make(map[string]bool),
	}
}

// Start begins watching. Paths added before Start are picked up.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	w.mu.Lock()
	w.watcher = fw
	w.done = make(chan struct{})
	for dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			w.logger.Debug("failed to watch sound directory", "dir", dir, "error", err)
		}
	}
	w.mu.Unlock()

	go w.loop(ctx, fw, w.done)
	return nil
}

// Watch adds path to the watch list.
func (w *Watcher) Watch(path string) {
	if path == "" {
		return
	}
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.paths[path] = true
	if w.dirs[dir] {
		return
	}
	w.dirs[dir] = true
	if w.watcher != nil {
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Debug("failed to watch sound directory", "dir", dir, "error", err)
		}
	}
}

// Stop stops watching.
func (w *Watcher) Stop() {
	w.mu.Lock()
	fw, done := w.watcher, w.done
	w.watcher = nil
	w.mu.Unlock()

	if fw == nil {
		return
	}
	_ = fw.Close()
	<-done
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			path := filepath.Clean(event.Name)
			w.mu.Lock()
			watched := w.paths[path]
			w.mu.Unlock()
			if watched {
				w.logger.Debug("sound file changed, invalidating cache", "path", path, "op", event.Op.String())
				w.player.Invalidate(path)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Debug("sound watcher error", "error", err)
		}
	}
}
