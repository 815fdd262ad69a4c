package tui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/fsnotice/internal/model"
)

// PickFunc opens a native color chooser. ok is false when the user cancels.
type PickFunc func(ctx context.Context, initial string) (color string, ok bool, err error)

// pickerTimeout bounds how long the chooser subprocess may stay open.
const pickerTimeout = 10 * time.Minute

// ExecPicker runs "<self> pick-color --initial <color>" and reads the chosen
// color from stdout. Empty output means cancelled.
func ExecPicker(ctx context.Context, initial string) (string, bool, error) {
	self, err := os.Executable()
	if err != nil {
		return "", false, fmt.Errorf("failed to locate executable: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, self, "pick-color", "--initial", initial)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", false, fmt.Errorf("color chooser failed: %s", msg)
		}
		return "", false, fmt.Errorf("color chooser failed: %w", err)
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", false, nil
	}
	hex, err := model.NormalizeColor(out)
	if err != nil {
		return "", false, err
	}
	return hex, true, nil
}

type pickedColorMsg struct {
	color string
	ok    bool
	err   error
}

// runPicker runs pick off the UI goroutine.
func runPicker(pick PickFunc, initial string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pickerTimeout)
		defer cancel()
		c, ok, err := pick(ctx, initial)
		return pickedColorMsg{color: c, ok: ok, err: err}
	}
}

// colorItem is a palette entry. custom marks the hex entry row.
type colorItem struct {
	hex    string
	custom bool
}

func (i colorItem) Title() string {
	if i.custom {
		return "Custom hex..."
	}
	return swatch(i.hex) + " " + i.hex
}

func (i colorItem) Description() string { return "" }

func (i colorItem) FilterValue() string { return i.hex }

func paletteItems(palette []string) []list.Item {
	items := make([]list.Item, 0, len(palette)+1)
	for _, hex := range palette {
		items = append(items, colorItem{hex: hex})
	}
	return append(items, colorItem{custom: true})
}

func newPaletteList(palette []string) list.Model {
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	d.SetSpacing(0)

	l := list.New(paletteItems(palette), d, 0, 0)
	l.Title = "Color"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}
