package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/fsnotice/internal/stepper"
)

// SpinBoxChangedMsg is sent once per accepted mutation of a SpinBox.
type SpinBoxChangedMsg struct {
	Value int
}

// SpinBoxRejectedMsg is sent when a commit is rejected.
type SpinBoxRejectedMsg struct {
	Raw string
	Err error
}

// SpinBoxKeyMap defines the SpinBox key bindings.
type SpinBoxKeyMap struct {
	Increment key.Binding
	Decrement key.Binding
	Submit    key.Binding
}

// DefaultSpinBoxKeyMap returns the default SpinBox bindings.
func DefaultSpinBoxKeyMap() SpinBoxKeyMap {
	return SpinBoxKeyMap{
		Increment: key.NewBinding(
			key.WithKeys("up", "+"),
			key.WithHelp("↑/+", "increase"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("down", "-"),
			key.WithHelp("↓/-", "decrease"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
	}
}

// rejection holds the last onReject call. It is shared by SpinBox copies.
type rejection struct {
	raw string
	err error
	set bool
}

// SpinBox is a bounded integer field: a text input with step buttons.
type SpinBox struct {
	stepper *stepper.Stepper
	input   textinput.Model
	keys    SpinBoxKeyMap
	last    *rejection
}

// NewSpinBox builds a SpinBox around the stepper returned by newStepper.
// newStepper must apply the options it is given, e.g. config.SizeStepper.
func NewSpinBox(newStepper func(opts ...stepper.Option) *stepper.Stepper) SpinBox {
	last := &rejection{}
	s := newStepper(stepper.WithOnReject(func(raw string, err error) {
		last.raw, last.err, last.set = raw, err, true
	}))

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 12
	input.Width = max(len(strconv.Itoa(s.Max())), len(strconv.Itoa(s.Min()))) + 1
	input.SetValue(s.Text())
	input.CursorEnd()

	return SpinBox{
		stepper: s,
		input:   input,
		keys:    DefaultSpinBoxKeyMap(),
		last:    last,
	}
}

// Stepper returns the underlying stepper.
func (b SpinBox) Stepper() *stepper.Stepper { return b.stepper }

// Value returns the committed value.
func (b SpinBox) Value() int { return b.stepper.Value() }

// Focused reports whether the edit surface has focus.
func (b SpinBox) Focused() bool { return b.input.Focused() }

// Focus focuses the edit surface.
func (b *SpinBox) Focus() tea.Cmd {
	return b.input.Focus()
}

// Blur commits the pending text and removes focus.
func (b *SpinBox) Blur() tea.Cmd {
	cmd := b.Submit()
	b.input.Blur()
	return cmd
}

// Submit commits the pending text.
func (b *SpinBox) Submit() tea.Cmd {
	return b.apply(b.stepper.Submit(b.input.Value()))
}

// SetValue sets the value with the stepper's policy.
func (b *SpinBox) SetValue(v int) tea.Cmd {
	return b.apply(b.stepper.SetValue(v))
}

// Increment steps the value up.
func (b *SpinBox) Increment() tea.Cmd {
	return b.apply(b.stepper.Increment())
}

// Decrement steps the value down.
func (b *SpinBox) Decrement() tea.Cmd {
	return b.apply(b.stepper.Decrement())
}

// apply resynchronizes the input with the stepper and reports the outcome.
func (b *SpinBox) apply(changed bool) tea.Cmd {
	b.input.SetValue(b.stepper.Text())
	b.input.CursorEnd()

	if b.last.set {
		raw, err := b.last.raw, b.last.err
		*b.last = rejection{}
		return func() tea.Msg { return SpinBoxRejectedMsg{Raw: raw, Err: err} }
	}
	if changed {
		v := b.stepper.Value()
		return func() tea.Msg { return SpinBoxChangedMsg{Value: v} }
	}
	return nil
}

// Update handles key presses while focused and forwards other messages to
// the text input.
func (b SpinBox) Update(msg tea.Msg) (SpinBox, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		if !b.input.Focused() {
			return b, nil
		}
		switch {
		case key.Matches(km, b.keys.Increment):
			return b, b.Increment()
		case key.Matches(km, b.keys.Decrement):
			return b, b.Decrement()
		case key.Matches(km, b.keys.Submit):
			return b, b.Submit()
		}
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	b.stepper.SetText(b.input.Value())
	return b, cmd
}

// View renders the label, the edit surface and the step glyphs.
func (b SpinBox) View() string {
	up, down := "▲", "▼"
	if b.stepper.CanIncrement() {
		up = glyphStyle.Render(up)
	} else {
		up = disabledStyle.Render(up)
	}
	if b.stepper.CanDecrement() {
		down = glyphStyle.Render(down)
	} else {
		down = disabledStyle.Render(down)
	}

	label := labelStyle
	if b.input.Focused() {
		label = focusedLabelStyle
	}
	return label.Render(b.stepper.Label()+":") + " " + b.input.View() + " " + up + down
}
