package stepper

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Policy selects how parseable but out-of-range input is handled.
type Policy int

const (
	// PolicyClamp corrects out-of-range input to the nearest bound.
	PolicyClamp Policy = iota
	// PolicyReject leaves the value unchanged on out-of-range input.
	PolicyReject
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyClamp:
		return "clamp"
	case PolicyReject:
		return "reject"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy converts a configuration value into a Policy.
// An empty string selects PolicyClamp.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clamp":
		return PolicyClamp, nil
	case "reject":
		return PolicyReject, nil
	default:
		return PolicyClamp, fmt.Errorf("unknown stepper policy %q (want clamp or reject)", s)
	}
}

// Validation errors passed to the reject hook.
var (
	// ErrInvalidNumericInput covers non-numeric, empty and overflowing text.
	ErrInvalidNumericInput = errors.New("invalid numeric input")
	// ErrOutOfRange is reported under PolicyReject for parseable values
	// outside [min, max].
	ErrOutOfRange = errors.New("value out of range")
)

// ChangeFunc is invoked with the new value after every accepted mutation.
type ChangeFunc func(value int)

// RejectFunc is invoked with the raw input and the reason whenever a
// proposed edit is rejected. It is a validation signal only.
type RejectFunc func(raw string, err error)

// Stepper holds a bounded integer value.
//
// A Stepper is not safe for concurrent use; it is meant to be owned by a
// single UI event loop.
type Stepper struct {
	label  string
	min    int
	max    int
	step   int
	policy Policy

	value int
	text  string

	onChange ChangeFunc
	onReject RejectFunc

	clampInitial bool
}

// Option configures a Stepper at construction.
type Option func(*Stepper)

// WithStep sets the increment/decrement magnitude. Non-positive values are ignored.
func WithStep(step int) Option {
	return func(s *Stepper) {
		if step > 0 {
			s.step = step
		}
	}
}

// WithPolicy sets the range-violation policy.
func WithPolicy(p Policy) Option {
	return func(s *Stepper) {
		s.policy = p
	}
}

// WithLabel sets the display label.
func WithLabel(label string) Option {
	return func(s *Stepper) {
		s.label = label
	}
}

// WithOnChange registers the change notification hook.
func WithOnChange(fn ChangeFunc) Option {
	return func(s *Stepper) {
		s.onChange = fn
	}
}

// WithOnReject registers a hook that observes rejected edits.
func WithOnReject(fn RejectFunc) Option {
	return func(s *Stepper) {
		s.onReject = fn
	}
}

// WithClampInitial clamps the initial value into [min, max].
// Without it the initial value is used verbatim.
func WithClampInitial() Option {
	return func(s *Stepper) {
		s.clampInitial = true
	}
}

// New creates a Stepper over the inclusive range [min, max].
// Callers must ensure min <= max.
func New(min, max, initial int, opts ...Option) *Stepper {
	s := &Stepper{
		min:    min,
		max:    max,
		step:   1,
		policy: PolicyClamp,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.clampInitial {
		initial = s.clamp(initial)
	}
	s.value = initial
	s.text = strconv.Itoa(initial)

	return s
}

// Value returns the current value.
func (s *Stepper) Value() int { return s.value }

// Text returns the text currently shown on the edit surface.
func (s *Stepper) Text() string { return s.text }

// Min returns the inclusive lower bound.
func (s *Stepper) Min() int { return s.min }

// Max returns the inclusive upper bound.
func (s *Stepper) Max() int { return s.max }

// Step returns the increment/decrement magnitude.
func (s *Stepper) Step() int { return s.step }

// Label returns the display label.
func (s *Stepper) Label() string { return s.label }

// Policy returns the range-violation policy.
func (s *Stepper) Policy() Policy { return s.policy }

// CanDecrement reports whether the decrement action is enabled.
func (s *Stepper) CanDecrement() bool { return s.value > s.min }

// CanIncrement reports whether the increment action is enabled.
func (s *Stepper) CanIncrement() bool { return s.value < s.max }

// SetText replaces the pending edit text without committing it.
func (s *Stepper) SetText(text string) {
	s.text = text
}

// Set parses raw and applies it according to the policy.
// It reports whether the value changed. On return the edit text is always
// the canonical form of the current value.
func (s *Stepper) Set(raw string) bool {
	v, err := parse(raw)
	if err != nil {
		s.reject(raw, err)
		return false
	}
	return s.apply(raw, v)
}

// SetValue assigns v with the same semantics as Set.
func (s *Stepper) SetValue(v int) bool {
	return s.apply(strconv.Itoa(v), v)
}

// Submit commits text from the edit surface.
func (s *Stepper) Submit(text string) bool {
	return s.Set(text)
}

// Increment adds one step to the value. It is a no-op at max.
func (s *Stepper) Increment() bool {
	if !s.CanIncrement() {
		s.text = strconv.Itoa(s.value)
		return false
	}
	return s.SetValue(saturatingAdd(s.value, s.step))
}

// Decrement subtracts one step from the value. It is a no-op at min.
func (s *Stepper) Decrement() bool {
	if !s.CanDecrement() {
		s.text = strconv.Itoa(s.value)
		return false
	}
	return s.SetValue(saturatingAdd(s.value, -s.step))
}

func (s *Stepper) apply(raw string, v int) bool {
	switch s.policy {
	case PolicyReject:
		if v < s.min || v > s.max {
			s.reject(raw, ErrOutOfRange)
			return false
		}
	default:
		v = s.clamp(v)
	}

	if v == s.value {
		s.text = strconv.Itoa(s.value)
		return false
	}

	s.value = v
	s.text = strconv.Itoa(v)
	if s.onChange != nil {
		s.onChange(v)
	}
	return true
}

func (s *Stepper) reject(raw string, err error) {
	s.text = strconv.Itoa(s.value)
	if s.onReject != nil {
		s.onReject(raw, err)
	}
}

func (s *Stepper) clamp(v int) int {
	if v < s.min {
		return s.min
	}
	if v > s.max {
		return s.max
	}
	return v
}

// parse converts edit text into an int. Surrounding whitespace is ignored.
func parse(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidNumericInput)
	}
	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumericInput, raw)
	}
	return v, nil
}

func saturatingAdd(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	if b < 0 && a < math.MinInt-b {
		return math.MinInt
	}
	return a + b
}
