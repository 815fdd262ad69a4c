package display

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/fsnotice/internal/model"
)

// PickerAppID is the application ID of the one-shot color chooser.
const PickerAppID = "io.github.jmylchreest.fsnotice.picker"

// PickColor runs a GTK color chooser seeded with initial. It returns the
// chosen color as #rrggbb and ok=false when the dialog is dismissed or ctx
// is cancelled.
func PickColor(ctx context.Context, initial string, logger *slog.Logger) (color string, ok bool, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	r, g, b, err := model.RGB(initial)
	if err != nil {
		r, g, b, _ = model.RGB(model.DefaultColor)
	}

	app := gtk.NewApplication(PickerAppID, gio.ApplicationNonUnique)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.ConnectActivate(func() {
		dialog := gtk.NewColorChooserDialog("Notice color", nil)
		dialog.SetApplication(app)
		dialog.SetModal(true)
		dialog.SetUseAlpha(false)
		rgba := gdk.NewRGBA(float32(r), float32(g), float32(b), 1)
		dialog.SetRGBA(&rgba)

		dialog.ConnectResponse(func(response int) {
			if response == int(gtk.ResponseOK) {
				chosen := dialog.RGBA()
				color = model.ColorFromRGB(float64(chosen.Red()), float64(chosen.Green()), float64(chosen.Blue()))
				ok = true
			}
			dialog.Destroy()
			app.Quit()
		})

		go func() {
			<-ctx.Done()
			glib.IdleAdd(func() {
				app.Quit()
			})
		}()

		dialog.SetVisible(true)
	})

	if status := app.Run([]string{os.Args[0]}); status != 0 {
		return "", false, &PresentError{Op: "pick", Err: fmt.Errorf("%w: %d", ErrExitStatus, status)}
	}

	logger.Debug("color chooser closed", "color", color, "ok", ok)
	return color, ok, nil
}
