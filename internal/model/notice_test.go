package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotice(t *testing.T) {
	n, err := NewNotice(SourceCLI)
	require.NoError(t, err)

	assert.Len(t, n.ID, 26)
	assert.Equal(t, SourceCLI, n.Source)
	assert.Equal(t, DefaultFontSize, n.FontSize)
	assert.Equal(t, DefaultColor, n.Color)
	assert.Greater(t, n.CreatedAt, int64(0))
	assert.False(t, n.IsPresented())
	require.NoError(t, n.Validate())
}

func TestNotice_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Notice)
		wantErr error
	}{
		{"valid notice", func(n *Notice) {}, nil},
		{"empty id", func(n *Notice) { n.ID = "" }, ErrEmptyID},
		{"empty source", func(n *Notice) { n.Source = "" }, ErrEmptySource},
		{"zero font size", func(n *Notice) { n.FontSize = 0 }, ErrInvalidFontSize},
		{"bad color", func(n *Notice) { n.Color = "nope" }, ErrInvalidColor},
		{"bad background", func(n *Notice) { n.Background = "#12" }, ErrInvalidColor},
		{"zero created", func(n *Notice) { n.CreatedAt = 0 }, ErrInvalidCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNotice(SourceTUI)
			require.NoError(t, err)
			tt.modify(n)

			err = n.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNotice_DisplayText(t *testing.T) {
	n := &Notice{Text: "  \n "}
	assert.Equal(t, EmptyText, n.DisplayText())

	n.Text = "Meeting in room 4"
	assert.Equal(t, "Meeting in room 4", n.DisplayText())
}

func TestNotice_Truncated(t *testing.T) {
	n := &Notice{Text: "Line one\nline   two"}
	assert.Equal(t, "Line one line two", n.Truncated(50))
	assert.Equal(t, "Line o...", n.Truncated(9))
	assert.Equal(t, "Lin", n.Truncated(3))
	assert.Equal(t, "", n.Truncated(0))

	wide := &Notice{Text: strings.Repeat("公示", 10)}
	assert.Equal(t, "公示公...", wide.Truncated(6))
}

func TestNotice_MarkPresentedAndClosed(t *testing.T) {
	n, err := NewNotice(SourceTUI)
	require.NoError(t, err)

	n.MarkPresented()
	assert.True(t, n.IsPresented())
	assert.Zero(t, n.ClosedAt)

	n.MarkClosed()
	assert.GreaterOrEqual(t, n.ClosedAt, n.PresentedAt)
}

func TestNotice_RelativeTime(t *testing.T) {
	n := &Notice{CreatedAt: time.Now().Add(-2 * time.Hour).Unix()}
	assert.Equal(t, "2 hours ago", n.RelativeTime())

	n.PresentedAt = time.Now().Add(-3 * time.Minute).Unix()
	assert.Equal(t, "3 minutes ago", n.RelativeTime())
}

func TestNotice_Clone(t *testing.T) {
	orig, err := NewNotice(SourceTUI)
	require.NoError(t, err)
	orig.Text = "hello"
	orig.FontSize = 240
	orig.Color = "#ff0000"
	orig.MarkPresented()

	clone, err := orig.Clone(SourceRecall)
	require.NoError(t, err)

	assert.NotEqual(t, orig.ID, clone.ID)
	assert.Equal(t, SourceRecall, clone.Source)
	assert.Equal(t, "hello", clone.Text)
	assert.Equal(t, 240, clone.FontSize)
	assert.Equal(t, "#ff0000", clone.Color)
	assert.False(t, clone.IsPresented())
}
