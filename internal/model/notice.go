// Package model defines the core data structures for fsnotice.
package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"
)

// Defaults shared by the editor, the CLI and the daemon.
const (
	DefaultFontSize   = 100
	DefaultColor      = "#ffffff"
	DefaultBackground = "#000000"

	// EmptyText is shown when a notice has no visible content.
	EmptyText = "(no content)"
)

// Sources identify where a notice was composed.
const (
	SourceTUI    = "tui"
	SourceCLI    = "cli"
	SourceDBus   = "dbus"
	SourceRecall = "history"
)

// Notice is a single full-screen notice.
type Notice struct {
	ID         string `json:"id" yaml:"id"`
	Source     string `json:"source" yaml:"source"`
	Text       string `json:"text" yaml:"text"`
	FontSize   int    `json:"font_size" yaml:"font_size"`
	Color      string `json:"color" yaml:"color"`
	Background string `json:"background,omitempty" yaml:"background,omitempty"`

	CreatedAt   int64 `json:"created_at" yaml:"created_at"`
	PresentedAt int64 `json:"presented_at,omitempty" yaml:"presented_at,omitempty"`
	ClosedAt    int64 `json:"closed_at,omitempty" yaml:"closed_at,omitempty"`
}

// Validation errors.
var (
	ErrEmptyID         = errors.New("id cannot be empty")
	ErrEmptySource     = errors.New("source cannot be empty")
	ErrInvalidFontSize = errors.New("font_size must be greater than 0")
	ErrInvalidCreated  = errors.New("created_at must be greater than 0")
)

// NewNotice creates a Notice with a generated ULID and default styling.
func NewNotice(source string) (*Notice, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}

	return &Notice{
		ID:        id.String(),
		Source:    source,
		FontSize:  DefaultFontSize,
		Color:     DefaultColor,
		CreatedAt: time.Now().Unix(),
	}, nil
}

// Validate checks that the notice is well formed.
func (n *Notice) Validate() error {
	if n.ID == "" {
		return ErrEmptyID
	}
	if n.Source == "" {
		return ErrEmptySource
	}
	if n.FontSize <= 0 {
		return ErrInvalidFontSize
	}
	if _, err := NormalizeColor(n.Color); err != nil {
		return err
	}
	if n.Background != "" {
		if _, err := NormalizeColor(n.Background); err != nil {
			return err
		}
	}
	if n.CreatedAt <= 0 {
		return ErrInvalidCreated
	}
	return nil
}

// DisplayText returns the text to present, substituting EmptyText for
// blank notices.
func (n *Notice) DisplayText() string {
	if strings.TrimSpace(n.Text) == "" {
		return EmptyText
	}
	return n.Text
}

// Truncated returns the text on a single line, cut to maxLen characters.
func (n *Notice) Truncated(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	text := strings.Join(strings.Fields(n.DisplayText()), " ")
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// RelativeTime describes when the notice was last presented, or created if
// it was never presented.
func (n *Notice) RelativeTime() string {
	ts := n.PresentedAt
	if ts == 0 {
		ts = n.CreatedAt
	}
	return humanize.Time(time.Unix(ts, 0))
}

// MarkPresented records the presentation time.
func (n *Notice) MarkPresented() {
	n.PresentedAt = time.Now().Unix()
	n.ClosedAt = 0
}

// MarkClosed records when the presentation ended.
func (n *Notice) MarkClosed() {
	n.ClosedAt = time.Now().Unix()
}

// IsPresented returns true if the notice has been shown at least once.
func (n *Notice) IsPresented() bool {
	return n.PresentedAt > 0
}

// Clone returns a copy of the notice with a fresh ID, for re-presenting a
// notice recalled from history.
func (n *Notice) Clone(source string) (*Notice, error) {
	clone, err := NewNotice(source)
	if err != nil {
		return nil, err
	}
	clone.Text = n.Text
	clone.FontSize = n.FontSize
	clone.Color = n.Color
	clone.Background = n.Background
	return clone, nil
}
