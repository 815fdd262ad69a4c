package stepper

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures hook invocations.
type recorder struct {
	changes []int
	rejects []error
}

func (r *recorder) opts() []Option {
	return []Option{
		WithOnChange(func(v int) { r.changes = append(r.changes, v) }),
		WithOnReject(func(_ string, err error) { r.rejects = append(r.rejects, err) }),
	}
}

func assertEnablement(t *testing.T, s *Stepper) {
	t.Helper()
	assert.Equal(t, s.Value() > s.Min(), s.CanDecrement(), "decrement enablement")
	assert.Equal(t, s.Value() < s.Max(), s.CanIncrement(), "increment enablement")
}

func TestNew_Defaults(t *testing.T) {
	s := New(20, 500, 100, WithLabel("Size"))

	assert.Equal(t, 100, s.Value())
	assert.Equal(t, "100", s.Text())
	assert.Equal(t, 1, s.Step())
	assert.Equal(t, PolicyClamp, s.Policy())
	assert.Equal(t, "Size", s.Label())
	assert.True(t, s.CanDecrement())
	assert.True(t, s.CanIncrement())
}

func TestNew_InitialOutOfRange(t *testing.T) {
	s := New(0, 10, 50)
	assert.Equal(t, 50, s.Value(), "initial is used verbatim")
	assert.False(t, s.CanIncrement())
	assert.True(t, s.CanDecrement())

	clamped := New(0, 10, 50, WithClampInitial())
	assert.Equal(t, 10, clamped.Value())
	assert.Equal(t, "10", clamped.Text())
}

func TestWithStep_IgnoresNonPositive(t *testing.T) {
	assert.Equal(t, 1, New(0, 10, 5, WithStep(0)).Step())
	assert.Equal(t, 1, New(0, 10, 5, WithStep(-3)).Step())
	assert.Equal(t, 4, New(0, 10, 5, WithStep(4)).Step())
}

func TestSet_InRange(t *testing.T) {
	for _, policy := range []Policy{PolicyClamp, PolicyReject} {
		t.Run(policy.String(), func(t *testing.T) {
			var rec recorder
			s := New(-5, 5, 0, append(rec.opts(), WithPolicy(policy))...)

			for v := -5; v <= 5; v++ {
				s.Set(strconv.Itoa(v))
				assert.Equal(t, v, s.Value())
				assert.Equal(t, strconv.Itoa(v), s.Text())
				assertEnablement(t, s)
			}
			assert.Len(t, rec.changes, 11)
			assert.Empty(t, rec.rejects)
		})
	}
}

func TestSet_NonNumeric(t *testing.T) {
	inputs := []string{"abc", "", "   ", "12a", "1.5", "99999999999999999999999", "--1"}

	for _, policy := range []Policy{PolicyClamp, PolicyReject} {
		for _, raw := range inputs {
			t.Run(policy.String()+"/"+raw, func(t *testing.T) {
				var rec recorder
				s := New(0, 100, 10, append(rec.opts(), WithPolicy(policy))...)
				s.SetText(raw)

				changed := s.Set(raw)

				assert.False(t, changed)
				assert.Equal(t, 10, s.Value())
				assert.Equal(t, "10", s.Text())
				assert.Empty(t, rec.changes)
				require.Len(t, rec.rejects, 1)
				assert.True(t, errors.Is(rec.rejects[0], ErrInvalidNumericInput))
				assertEnablement(t, s)
			})
		}
	}
}

func TestSet_WhitespaceTrimmed(t *testing.T) {
	s := New(0, 100, 10)
	assert.True(t, s.Set(" 42 "))
	assert.Equal(t, 42, s.Value())
	assert.Equal(t, "42", s.Text())
}

func TestSet_ClampPolicy(t *testing.T) {
	var rec recorder
	s := New(20, 500, 100, rec.opts()...)

	assert.True(t, s.Set("9999"))
	assert.Equal(t, 500, s.Value())
	assert.Equal(t, "500", s.Text())
	assert.False(t, s.CanIncrement())

	assert.True(t, s.Set("-7"))
	assert.Equal(t, 20, s.Value())
	assert.Equal(t, "20", s.Text())
	assert.False(t, s.CanDecrement())

	assert.Equal(t, []int{500, 20}, rec.changes)
	assert.Empty(t, rec.rejects)
}

func TestSet_ClampPolicy_SameValueResyncsText(t *testing.T) {
	var rec recorder
	s := New(0, 10, 10, rec.opts()...)
	s.SetText("0010")

	assert.False(t, s.Set("0010"))
	assert.Equal(t, "10", s.Text())

	s.SetText("50")
	assert.False(t, s.Set("50"), "clamped to current value")
	assert.Equal(t, "10", s.Text())

	assert.Empty(t, rec.changes)
	assert.Empty(t, rec.rejects)
}

func TestSet_RejectPolicy(t *testing.T) {
	var rec recorder
	s := New(20, 500, 100, append(rec.opts(), WithPolicy(PolicyReject))...)

	for _, raw := range []string{"501", "9999", "19", "-1"} {
		s.SetText(raw)
		assert.False(t, s.Set(raw), raw)
		assert.Equal(t, 100, s.Value())
		assert.Equal(t, "100", s.Text())
		assertEnablement(t, s)
	}

	assert.Empty(t, rec.changes)
	require.Len(t, rec.rejects, 4)
	for _, err := range rec.rejects {
		assert.ErrorIs(t, err, ErrOutOfRange)
	}
}

func TestIncrementDecrement_AtBounds(t *testing.T) {
	for _, policy := range []Policy{PolicyClamp, PolicyReject} {
		t.Run(policy.String(), func(t *testing.T) {
			var rec recorder
			s := New(0, 3, 3, append(rec.opts(), WithPolicy(policy))...)

			assert.False(t, s.Increment())
			assert.Equal(t, 3, s.Value())
			assert.Equal(t, "3", s.Text())

			assert.True(t, s.Decrement())
			assert.True(t, s.Decrement())
			assert.True(t, s.Decrement())
			assert.False(t, s.Decrement())
			assert.Equal(t, 0, s.Value())
			assertEnablement(t, s)

			assert.Equal(t, []int{2, 1, 0}, rec.changes)
			assert.Empty(t, rec.rejects)
		})
	}
}

func TestIncrement_StepOvershoot(t *testing.T) {
	clamp := New(0, 10, 8, WithStep(5))
	assert.True(t, clamp.Increment())
	assert.Equal(t, 10, clamp.Value())

	reject := New(0, 10, 8, WithStep(5), WithPolicy(PolicyReject))
	assert.False(t, reject.Increment())
	assert.Equal(t, 8, reject.Value())
	assert.Equal(t, "8", reject.Text())
}

func TestIncrement_NoOverflow(t *testing.T) {
	s := New(0, math.MaxInt, math.MaxInt-1, WithStep(10))
	assert.True(t, s.Increment())
	assert.Equal(t, math.MaxInt, s.Value())

	s = New(math.MinInt, 0, math.MinInt+1, WithStep(10))
	assert.True(t, s.Decrement())
	assert.Equal(t, math.MinInt, s.Value())
}

func TestSubmit_DelegatesToSet(t *testing.T) {
	s := New(0, 100, 10)
	s.SetText("55")
	assert.Equal(t, 10, s.Value(), "typing does not commit")

	assert.True(t, s.Submit(s.Text()))
	assert.Equal(t, 55, s.Value())
}

func TestSetValue_SameSemanticsAsSet(t *testing.T) {
	var rec recorder
	s := New(0, 100, 10, rec.opts()...)

	assert.True(t, s.SetValue(1000))
	assert.Equal(t, 100, s.Value())
	assert.False(t, s.SetValue(100))
	assert.Equal(t, []int{100}, rec.changes)
}

func TestOnChange_SeesConsistentState(t *testing.T) {
	var s *Stepper
	var seen []string
	s = New(0, 5, 4, WithOnChange(func(v int) {
		assert.Equal(t, v, s.Value())
		assert.Equal(t, strconv.Itoa(v), s.Text())
		seen = append(seen, strconv.FormatBool(s.CanIncrement()))
	}))

	s.Increment()
	s.Decrement()
	assert.Equal(t, []string{"false", "true"}, seen)
}

func TestScenario_FontSize(t *testing.T) {
	clamp := New(20, 500, 100)
	reject := New(20, 500, 100, WithPolicy(PolicyReject))

	for _, s := range []*Stepper{clamp, reject} {
		s.Increment()
		assert.Equal(t, 101, s.Value())

		s.Set("20")
		assert.Equal(t, 20, s.Value())
		assert.False(t, s.CanDecrement())

		s.Decrement()
		assert.Equal(t, 20, s.Value())

		s.Set("9999")
	}

	assert.Equal(t, 500, clamp.Value())
	assert.False(t, clamp.CanIncrement())
	assert.Equal(t, 20, reject.Value())
	assert.Equal(t, "20", reject.Text())
}

func TestScenario_NonNumeric(t *testing.T) {
	s := New(0, 100, 10)
	s.Set("abc")
	assert.Equal(t, 10, s.Value())
	assert.Equal(t, "10", s.Text())
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    Policy
		wantErr bool
	}{
		{"", PolicyClamp, false},
		{"clamp", PolicyClamp, false},
		{" Reject ", PolicyReject, false},
		{"strict", PolicyClamp, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePolicy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "clamp", PolicyClamp.String())
	assert.Equal(t, "reject", PolicyReject.String())
	assert.Equal(t, "policy(7)", Policy(7).String())
}
