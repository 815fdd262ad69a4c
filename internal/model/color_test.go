package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"#FFFFFF", "#ffffff", false},
		{"#f00", "#ff0000", false},
		{"00ff00", "#00ff00", false},
		{" White ", "#ffffff", false},
		{"yellow", "#ffff00", false},
		{"", "", true},
		{"#12345", "", true},
		{"#gggggg", "", true},
		{"not-a-color", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeColor(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorFromRGB(t *testing.T) {
	assert.Equal(t, "#ff0000", ColorFromRGB(1, 0, 0))
	assert.Equal(t, "#000000", ColorFromRGB(-1, 0, 0))
	assert.Equal(t, "#ffffff", ColorFromRGB(2, 2, 2))
}

func TestIsDark(t *testing.T) {
	assert.True(t, IsDark("#000000"))
	assert.True(t, IsDark("#000080"))
	assert.False(t, IsDark("#ffffff"))
	assert.False(t, IsDark("#ffff00"))
	assert.False(t, IsDark("bogus"))
}

func TestRGB(t *testing.T) {
	r, g, b, err := RGB("orange")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 0.001)
	assert.InDelta(t, 165.0/255.0, g, 0.001)
	assert.InDelta(t, 0.0, b, 0.001)

	assert.Equal(t, "#ffa500", ColorFromRGB(r, g, b))

	_, _, _, err = RGB("nope")
	assert.ErrorIs(t, err, ErrInvalidColor)
}
