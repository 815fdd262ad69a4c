package theme

import (
	"context"
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Loader applies a theme and the current notice's rules to a display.
// The notice provider sits one priority above the theme so a theme can
// never override the operator's size and colors.
type Loader struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	themesDir string

	provider       *gtk.CSSProvider
	noticeProvider *gtk.CSSProvider

	theme   *Theme
	watcher *Watcher
	display *gdk.Display
}

// NewLoader creates a theme loader. themesDir may be empty to use bundled
// themes only. Must be called on the GTK main thread.
func NewLoader(themesDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{
		logger:         logger,
		themesDir:      themesDir,
		provider:       gtk.NewCSSProvider(),
		noticeProvider: gtk.NewCSSProvider(),
	}
}

// LoadTheme resolves a theme by name and loads it into the provider.
func (l *Loader) LoadTheme(name string) {
	t, found, err := Resolve(name, l.themesDir)
	if err != nil {
		l.logger.Warn("failed to load user theme, using bundled", "theme", name, "error", err)
	}
	if !found {
		l.logger.Warn("theme not found, using default", "theme", name)
	}

	l.mu.Lock()
	l.theme = t
	l.mu.Unlock()

	l.provider.LoadFromString(t.CSS)
	l.logger.Info("loaded theme", "name", t.Name, "path", t.Path)
}

// Theme returns the currently loaded theme.
func (l *Loader) Theme() *Theme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}

// Apply attaches both providers to display, or the default display when nil.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}

	l.mu.Lock()
	l.display = display
	l.mu.Unlock()

	gtk.StyleContextAddProviderForDisplay(display, l.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	gtk.StyleContextAddProviderForDisplay(display, l.noticeProvider, gtk.STYLE_PROVIDER_PRIORITY_USER)
}

// SetNoticeCSS replaces the per-notice rules.
func (l *Loader) SetNoticeCSS(css string) {
	l.noticeProvider.LoadFromString(css)
}

// StartHotReload polls the current user theme and reloads it on change.
// Bundled themes are not watched.
func (l *Loader) StartHotReload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.theme == nil || l.theme.Bundled {
		l.logger.Debug("not starting hot-reload for bundled theme")
		return
	}

	if l.watcher != nil {
		l.watcher.Stop()
	}

	l.watcher = NewWatcher(l.theme, l.logger)
	l.watcher.SetChangeCallback(func(css string) {
		glib.IdleAdd(func() {
			l.provider.LoadFromString(css)
			l.logger.Info("hot-reloaded theme")
		})
	})
	l.watcher.Start(ctx)
}

// StopHotReload stops watching the theme for changes.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		l.watcher.Stop()
		l.watcher = nil
	}
}
