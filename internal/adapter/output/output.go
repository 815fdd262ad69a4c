// Package output provides output formatters for notice history.
package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/fsnotice/internal/model"
)

// Formatter formats notices for output.
type Formatter interface {
	// Format writes formatted notices to the writer.
	Format(w io.Writer, notices []model.Notice) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatDmenu FormatType = "dmenu"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatIDs   FormatType = "ids"
)

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) (Formatter, error) {
	switch format {
	case FormatPlain, "":
		f, err := NewPlainFormatter(opts)
		if err != nil {
			return nil, err
		}
		return f, nil
	case FormatDmenu:
		f, err := NewDmenuFormatter(opts)
		if err != nil {
			return nil, err
		}
		return f, nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatYAML:
		return NewYAMLFormatter(), nil
	case FormatIDs:
		return NewIDsFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (use plain, dmenu, json, yaml or ids)", format)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template   string // Custom template for dmenu/plain format
	ShowIndex  bool   // Show 1-based index prefix
	ShowTime   bool   // Show relative time
	TextMaxLen int    // Maximum text length (0 = unlimited)
	Separator  string // Field separator for dmenu format
}

// DefaultFormatterOptions returns sensible defaults.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:  true,
		ShowTime:   true,
		TextMaxLen: 80,
		Separator:  " | ",
	}
}
