package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/jmylchreest/fsnotice/internal/model"
)

// DmenuFormatter formats notices for dmenu/rofi/fuzzel, one per line.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) (*DmenuFormatter, error) {
	tmpl, err := parseTemplate("dmenu", opts.Template)
	if err != nil {
		return nil, err
	}
	return &DmenuFormatter{opts: opts, template: tmpl}, nil
}

// Format writes notices in dmenu format.
func (f *DmenuFormatter) Format(w io.Writer, notices []model.Notice) error {
	for i := range notices {
		line, err := f.formatLine(i+1, &notices[i])
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatLine formats: [index] [time] size color text
func (f *DmenuFormatter) formatLine(index int, n *model.Notice) (string, error) {
	if f.template != nil {
		var buf strings.Builder
		if err := f.template.Execute(&buf, newTemplateData(index, n)); err != nil {
			return "", fmt.Errorf("template: %w", err)
		}
		return buf.String(), nil
	}

	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	var parts []string
	if f.opts.ShowIndex {
		parts = append(parts, strconv.Itoa(index))
	}
	if f.opts.ShowTime {
		parts = append(parts, relativeTime(lastActive(n)))
	}
	parts = append(parts, strconv.Itoa(n.FontSize), n.Color)
	parts = append(parts, sanitizeText(n.DisplayText(), f.opts.TextMaxLen))

	return strings.Join(parts, sep), nil
}
