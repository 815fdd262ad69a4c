package display

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/fsnotice/internal/config"
	"github.com/jmylchreest/fsnotice/internal/dbus"
	"github.com/jmylchreest/fsnotice/internal/model"
)

// PresentAppID is the application ID of one-shot presentations.
const PresentAppID = "io.github.jmylchreest.fsnotice.present"

// RunOptions configures a one-shot presentation.
type RunOptions struct {
	// WatchPath, when set, live-reloads the notice text from this file.
	WatchPath string
	// OnPresented is called on the GTK main thread once the window is up.
	OnPresented func(n model.Notice)
	Logger      *slog.Logger
}

// Result describes how a one-shot presentation ended.
type Result struct {
	Notice model.Notice
	Reason dbus.CloseReason
}

// Run presents n in its own libadwaita application and blocks until the
// window closes or ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, n model.Notice, opts RunOptions) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := adw.NewApplication(PresentAppID, gio.ApplicationNonUnique)

	var (
		result  Result
		runErr  error
		watcher *TextWatcher
	)

	app.ConnectActivate(func() {
		presenter := NewPresenter(&app.Application, cfg, nil, logger)
		presenter.OnClose(func(closed model.Notice, reason dbus.CloseReason) {
			if reason == dbus.CloseReasonReplaced {
				return
			}
			result = Result{Notice: closed, Reason: reason}
			app.Quit()
		})

		presented, err := presenter.Show(n)
		if err != nil {
			runErr = err
			app.Quit()
			return
		}
		if opts.OnPresented != nil {
			opts.OnPresented(presented)
		}

		if opts.WatchPath != "" {
			watcher, err = WatchTextFile(ctx, opts.WatchPath, func(text string) {
				glib.IdleAdd(func() {
					cur, ok := presenter.Current()
					if !ok {
						return
					}
					cur.Text = text
					if err := presenter.Update(cur); err != nil {
						logger.Warn("failed to update notice text", "error", err)
					}
				})
			}, logger)
			if err != nil {
				logger.Warn("failed to watch text file", "path", opts.WatchPath, "error", err)
			}
		}

		go func() {
			<-ctx.Done()
			glib.IdleAdd(func() {
				presenter.Close(dbus.CloseReasonClosed)
			})
		}()
	})

	status := app.Run([]string{os.Args[0]})

	if watcher != nil {
		_ = watcher.Stop()
	}
	if runErr != nil {
		return result, runErr
	}
	if status != 0 {
		return result, &PresentError{Op: "run", NoticeID: n.ID, Err: fmt.Errorf("%w: %d", ErrExitStatus, status)}
	}
	return result, nil
}
