package output

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/jmylchreest/fsnotice/internal/model"
)

// templateData provides data for custom templates.
type templateData struct {
	Index        int
	Notice       *model.Notice
	RelativeTime string
}

func newTemplateData(index int, n *model.Notice) templateData {
	return templateData{
		Index:        index,
		Notice:       n,
		RelativeTime: relativeTime(lastActive(n)),
	}
}

// parseTemplate parses a user template with the helper functions.
func parseTemplate(name, text string) (*template.Template, error) {
	if text == "" {
		return nil, nil
	}
	tmpl, err := template.New(name).Funcs(templateFuncs()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}
	return tmpl, nil
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,
		"reltime":  relativeTime,
		"oneline":  func(s string) string { return sanitizeText(s, 0) },
	}
}

// lastActive returns the presentation time, or creation time if never shown.
func lastActive(n *model.Notice) int64 {
	if n.PresentedAt > 0 {
		return n.PresentedAt
	}
	return n.CreatedAt
}

// relativeTime returns a compact relative time string.
func relativeTime(timestamp int64) string {
	if timestamp == 0 {
		return "unknown"
	}

	d := time.Since(time.Unix(timestamp, 0))

	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw", int(d.Hours()/24/7))
	}
}

// truncate limits s to maxLen terminal cells, so wide runes count double.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}

// sanitizeText collapses notice text onto one line.
func sanitizeText(text string, maxLen int) string {
	text = strings.Join(strings.Fields(text), " ")
	return truncate(text, maxLen)
}
