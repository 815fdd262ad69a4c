package display

import (
	"log/slog"
	"sync"
	"time"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/diamondburned/gotk4/pkg/pango"

	"github.com/jmylchreest/fsnotice/internal/config"
	"github.com/jmylchreest/fsnotice/internal/dbus"
	"github.com/jmylchreest/fsnotice/internal/model"
	"github.com/jmylchreest/fsnotice/internal/theme"
)

// CloseFunc is called on the GTK main thread after a presentation ends.
type CloseFunc func(n model.Notice, reason dbus.CloseReason)

// Presenter owns the single presentation window. All methods except State
// must be called on the GTK main thread.
type Presenter struct {
	app    *gtk.Application
	cfg    *config.Config
	loader *theme.Loader
	logger *slog.Logger

	window   *gtk.Window
	label    *gtk.Label
	closeBtn *gtk.Button

	onClose CloseFunc

	// Set before window.Close so the close-request handler can report it.
	pendingReason dbus.CloseReason
	// Bumped on every show so stale auto-close timers are ignored.
	generation uint64

	mu      sync.RWMutex
	current *model.Notice
}

// NewPresenter creates a presenter. A nil loader loads the configured theme
// and applies it to the default display.
func NewPresenter(app *gtk.Application, cfg *config.Config, loader *theme.Loader, logger *slog.Logger) *Presenter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if loader == nil {
		loader = theme.NewLoader(config.ThemesDir(), logger)
		loader.LoadTheme(cfg.Theme.Name)
		loader.Apply(nil)
	}

	return &Presenter{
		app:    app,
		cfg:    cfg,
		loader: loader,
		logger: logger,
	}
}

// OnClose sets the callback for ended presentations.
func (p *Presenter) OnClose(cb CloseFunc) {
	p.onClose = cb
}

// SetConfig applies reloaded display options to the next Show.
func (p *Presenter) SetConfig(cfg *config.Config) {
	p.cfg = cfg
}

// State reports whether a notice is showing. Safe from any goroutine.
func (p *Presenter) State() dbus.State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return dbus.State{}
	}
	return dbus.State{Presenting: true, ID: p.current.ID}
}

// Current returns a copy of the notice on screen.
func (p *Presenter) Current() (model.Notice, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return model.Notice{}, false
	}
	return *p.current, true
}

// Show presents n, replacing whatever is on screen. The returned notice has
// PresentedAt set.
func (p *Presenter) Show(n model.Notice) (model.Notice, error) {
	if err := n.Validate(); err != nil {
		return n, &PresentError{Op: "show", NoticeID: n.ID, Err: err}
	}
	css, err := theme.NoticeCSS(n, p.cfg.Display.Background, p.cfg.Display.Padding)
	if err != nil {
		return n, &PresentError{Op: "style", NoticeID: n.ID, Err: err}
	}

	if prev, ok := p.Current(); ok && prev.ID != n.ID && p.onClose != nil {
		prev.MarkClosed()
		p.onClose(prev, dbus.CloseReasonReplaced)
	}

	if p.window == nil {
		if err := p.buildWindow(); err != nil {
			return n, err
		}
	}

	n.MarkPresented()
	p.setCurrent(&n)

	p.loader.SetNoticeCSS(css)
	p.label.SetText(n.DisplayText())
	p.closeBtn.SetVisible(p.cfg.Display.CloseButton)

	p.place()
	p.window.Present()
	p.scheduleAutoClose()

	p.logger.Debug("presented notice", "id", n.ID, "size", n.FontSize, "color", n.Color)
	return n, nil
}

// Update replaces the text, size and colors of the notice on screen without
// restarting the presentation. With nothing on screen it behaves like Show.
func (p *Presenter) Update(n model.Notice) error {
	cur, ok := p.Current()
	if !ok || p.window == nil {
		_, err := p.Show(n)
		return err
	}

	cur.Text = n.Text
	cur.FontSize = n.FontSize
	cur.Color = n.Color
	cur.Background = n.Background
	if err := cur.Validate(); err != nil {
		return &PresentError{Op: "update", NoticeID: cur.ID, Err: err}
	}

	css, err := theme.NoticeCSS(cur, p.cfg.Display.Background, p.cfg.Display.Padding)
	if err != nil {
		return &PresentError{Op: "style", NoticeID: cur.ID, Err: err}
	}

	p.setCurrent(&cur)
	p.loader.SetNoticeCSS(css)
	p.label.SetText(cur.DisplayText())
	return nil
}

// Close ends the presentation with reason. It reports whether anything was
// on screen; repeated calls are no-ops.
func (p *Presenter) Close(reason dbus.CloseReason) bool {
	if p.window == nil {
		return false
	}
	p.pendingReason = reason
	p.window.Close()
	return true
}

func (p *Presenter) setCurrent(n *model.Notice) {
	p.mu.Lock()
	p.current = n
	p.mu.Unlock()
}

func (p *Presenter) buildWindow() error {
	if gdk.DisplayGetDefault() == nil {
		return &PresentError{Op: "show", Err: ErrNoDisplay}
	}

	p.window = gtk.NewWindow()
	p.window.SetApplication(p.app)
	p.window.SetTitle(config.AppName)
	p.window.SetDecorated(false)
	p.window.AddCSSClass("fsnotice-window")

	if p.cfg.Display.LayerShell {
		if layershell.IsSupported() {
			p.initLayerShell()
		} else {
			p.logger.Warn("layer-shell not supported by compositor, using fullscreen")
		}
	}

	content := gtk.NewBox(gtk.OrientationVertical, 0)
	content.AddCSSClass("fsnotice-content")

	p.label = gtk.NewLabel("")
	p.label.AddCSSClass("fsnotice-text")
	p.label.SetWrap(true)
	p.label.SetWrapMode(pango.WrapWordChar)
	p.label.SetJustify(gtk.JustifyCenter)
	p.label.SetHAlign(gtk.AlignCenter)
	p.label.SetVAlign(gtk.AlignCenter)
	p.label.SetHExpand(true)
	p.label.SetVExpand(true)
	content.Append(p.label)

	p.closeBtn = gtk.NewButtonWithLabel("Close")
	p.closeBtn.AddCSSClass("fsnotice-close")
	p.closeBtn.SetHAlign(gtk.AlignCenter)
	p.closeBtn.ConnectClicked(func() {
		p.Close(dbus.CloseReasonDismissed)
	})
	content.Append(p.closeBtn)

	p.window.SetChild(content)

	keys := gtk.NewEventControllerKey()
	keys.ConnectKeyPressed(func(keyval, _ uint, _ gdk.ModifierType) bool {
		if keyval == gdk.KEY_Escape {
			p.Close(dbus.CloseReasonDismissed)
			return true
		}
		return false
	})
	p.window.AddController(keys)

	p.window.ConnectCloseRequest(func() bool {
		p.finish()
		return false
	})

	return nil
}

func (p *Presenter) initLayerShell() {
	layershell.InitForWindow(p.window)
	if p.cfg.Display.AlwaysOnTop {
		layershell.SetLayer(p.window, layershell.LayerShellLayerOverlay)
	} else {
		layershell.SetLayer(p.window, layershell.LayerShellLayerTop)
	}
	for _, edge := range []layershell.LayerShellEdge{
		layershell.LayerShellEdgeTop,
		layershell.LayerShellEdgeBottom,
		layershell.LayerShellEdgeLeft,
		layershell.LayerShellEdgeRight,
	} {
		layershell.SetAnchor(p.window, edge, true)
	}
	layershell.SetExclusiveZone(p.window, -1)
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeExclusive)
	layershell.SetNamespace(p.window, config.AppName)
}

// place puts the window on the configured monitor.
func (p *Presenter) place() {
	mon, ok := selectMonitor(gdk.DisplayGetDefault(), p.cfg.Display.Monitor)
	if !ok {
		p.logger.Warn("configured monitor not available, using first", "monitor", p.cfg.Display.Monitor)
	}

	if layershell.IsLayerWindow(p.window) {
		if mon != nil {
			layershell.SetMonitor(p.window, mon)
		}
		return
	}

	if mon != nil {
		p.window.FullscreenOnMonitor(mon)
	} else {
		p.window.Fullscreen()
	}
}

func (p *Presenter) scheduleAutoClose() {
	p.generation++
	d := p.cfg.Display.AutoClose.Duration()
	if d <= 0 {
		return
	}

	gen := p.generation
	time.AfterFunc(d, func() {
		glib.IdleAdd(func() {
			if p.generation == gen {
				p.Close(dbus.CloseReasonExpired)
			}
		})
	})
}

// finish runs from close-request and reports the ended presentation.
func (p *Presenter) finish() {
	reason := p.pendingReason
	if reason == 0 {
		reason = dbus.CloseReasonDismissed
	}
	p.pendingReason = 0
	p.generation++

	p.window = nil
	p.label = nil
	p.closeBtn = nil

	p.mu.Lock()
	cur := p.current
	p.current = nil
	p.mu.Unlock()

	if cur == nil {
		return
	}
	cur.MarkClosed()
	p.logger.Debug("notice closed", "id", cur.ID, "reason", reason.String())
	if p.onClose != nil {
		p.onClose(*cur, reason)
	}
}
