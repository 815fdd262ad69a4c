package display

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// MaxTextFileSize caps how much of a watched text file is read.
const MaxTextFileSize = 64 * 1024

// ReadTextFile reads notice text from path. Trailing newlines are dropped
// and content past MaxTextFileSize is ignored.
func ReadTextFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxTextFileSize))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// TextWatcher reloads notice text when a file changes. Editors that save by
// rename are handled by watching the parent directory.
type TextWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(text string)
	logger   *slog.Logger
	done     chan struct{}
}

// WatchTextFile starts watching path and calls onChange with the new text
// from the watcher goroutine. Stop or cancel ctx to end it.
func WatchTextFile(ctx context.Context, path string, onChange func(text string), logger *slog.Logger) (*TextWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	tw := &TextWatcher{
		path:     abs,
		watcher:  w,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
	}
	initial, _ := ReadTextFile(abs)
	go tw.loop(ctx, initial)

	logger.Debug("watching notice text", "path", abs)
	return tw, nil
}

func (tw *TextWatcher) loop(ctx context.Context, last string) {
	defer close(tw.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != tw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			text, err := ReadTextFile(tw.path)
			if err != nil {
				tw.logger.Debug("failed to reload notice text", "path", tw.path, "error", err)
				continue
			}
			if text == last {
				continue
			}
			last = text
			tw.onChange(text)
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			tw.logger.Warn("text watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and waits for its goroutine.
func (tw *TextWatcher) Stop() error {
	err := tw.watcher.Close()
	<-tw.done
	return err
}
