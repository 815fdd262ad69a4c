package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/jmylchreest/fsnotice/internal/model"
)

// PlainFormatter formats notices as readable text blocks.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) (*PlainFormatter, error) {
	tmpl, err := parseTemplate("plain", opts.Template)
	if err != nil {
		return nil, err
	}
	return &PlainFormatter{opts: opts, template: tmpl}, nil
}

// Format writes notices as plain text.
func (f *PlainFormatter) Format(w io.Writer, notices []model.Notice) error {
	for i := range notices {
		if err := f.formatNotice(w, i+1, &notices[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatNotice(w io.Writer, index int, n *model.Notice) error {
	if f.template != nil {
		return f.template.Execute(w, newTemplateData(index, n))
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		fmt.Fprintf(&sb, "[%d] ", index)
	}
	sb.WriteString(sanitizeText(n.DisplayText(), f.opts.TextMaxLen))
	if f.opts.ShowTime {
		fmt.Fprintf(&sb, " (%s)", n.RelativeTime())
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "    size %d, color %s, %s\n", n.FontSize, n.Color, n.ID)

	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatField outputs a specific field from a notice.
func FormatField(n *model.Notice, field string) (string, error) {
	switch strings.ToLower(field) {
	case "id":
		return n.ID, nil
	case "text", "":
		return n.Text, nil
	case "size", "font_size":
		return strconv.Itoa(n.FontSize), nil
	case "color":
		return n.Color, nil
	case "background":
		return n.Background, nil
	case "source":
		return n.Source, nil
	case "time":
		return n.RelativeTime(), nil
	default:
		return "", fmt.Errorf("unknown field %q (use id, text, size, color, background, source or time)", field)
	}
}
