package dbus

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/fsnotice/internal/config"
	"github.com/jmylchreest/fsnotice/internal/model"
	"github.com/jmylchreest/fsnotice/internal/stepper"
)

const (
	// BusName is the well-known name claimed by fsnoticed.
	BusName = "io.github.jmylchreest.FSNotice"
	// Interface is the presenter interface name.
	Interface = "io.github.jmylchreest.FSNotice"
	// ObjectPath is the presenter object path.
	ObjectPath = dbus.ObjectPath("/io/github/jmylchreest/FSNotice")

	// ErrorInvalidArgs is the D-Bus error name for rejected Present arguments.
	ErrorInvalidArgs = Interface + ".Error.InvalidArgs"
	// ErrorFailed is the D-Bus error name for presentation failures.
	ErrorFailed = Interface + ".Error.Failed"
)

// CloseReason explains why a presentation ended.
type CloseReason uint32

const (
	// CloseReasonExpired means the auto-close timer fired.
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed means the operator pressed Escape or Close.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed means a Close call or shutdown ended it.
	CloseReasonClosed CloseReason = 3
	// CloseReasonReplaced means a newer notice took over the window.
	CloseReasonReplaced CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// State is the presenter state reported by GetState.
type State struct {
	Presenting bool
	ID         string
}

// ClosedEvent is a decoded Closed signal.
type ClosedEvent struct {
	ID     string
	Reason CloseReason
}

// Validator turns raw Present arguments into a notice. Sizes pass through a
// clamp-policy stepper so remote callers get the same bounds as the editor.
type Validator struct {
	mu           sync.RWMutex
	min, max     int
	initial      int
	defaultColor string
}

// NewValidator creates a validator from cfg.
func NewValidator(cfg *config.Config) *Validator {
	v := &Validator{}
	v.Update(cfg)
	return v
}

// Update swaps in new bounds and defaults.
func (v *Validator) Update(cfg *config.Config) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.min = cfg.Size.Min
	v.max = cfg.Size.Max
	v.initial = cfg.Size.Initial
	v.defaultColor = cfg.Color.Default
}

// Notice builds a validated notice. A size of 0 selects the configured
// initial size; any other value is clamped into range. An empty color
// selects the configured default.
func (v *Validator) Notice(text string, size int32, color string) (*model.Notice, error) {
	v.mu.RLock()
	minSize, maxSize, initial, defColor := v.min, v.max, v.initial, v.defaultColor
	v.mu.RUnlock()

	if strings.TrimSpace(color) == "" {
		color = defColor
	}
	hex, err := model.NormalizeColor(color)
	if err != nil {
		return nil, err
	}

	sizer := stepper.New(minSize, maxSize, initial,
		stepper.WithPolicy(stepper.PolicyClamp), stepper.WithClampInitial())
	if size != 0 {
		sizer.SetValue(int(size))
	}

	n, err := model.NewNotice(model.SourceDBus)
	if err != nil {
		return nil, err
	}
	n.Text = text
	n.FontSize = sizer.Value()
	n.Color = hex
	return n, nil
}

// toDBusError maps a validation or handler error onto a D-Bus error.
func toDBusError(err error) *dbus.Error {
	if err == nil {
		return nil
	}
	name := ErrorFailed
	if errors.Is(err, model.ErrInvalidColor) || errors.Is(err, stepper.ErrOutOfRange) {
		name = ErrorInvalidArgs
	}
	return dbus.NewError(name, []interface{}{err.Error()})
}

// clampInt32 narrows n for the wire.
func clampInt32(n int) int32 {
	switch {
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < math.MinInt32:
		return math.MinInt32
	default:
		return int32(n)
	}
}

func notConnected() error {
	return fmt.Errorf("not connected to D-Bus")
}
