package theme

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/jmylchreest/fsnotice/internal/model"
)

var noticeTemplate = template.Must(template.New("notice").Parse(`.fsnotice-window {
  background-color: {{.Background}};
}

.fsnotice-text {
  font-size: {{.FontSize}}px;
  color: {{.Color}};
  padding: {{.Padding}}px;
}
`))

type noticeStyle struct {
	FontSize   int
	Color      string
	Background string
	Padding    int
}

// NoticeCSS renders the per-notice rules for n. The notice background wins
// over bg when set. Colors are normalized so arbitrary input cannot escape
// the declaration.
func NoticeCSS(n model.Notice, bg string, padding int) (string, error) {
	if n.FontSize <= 0 {
		return "", model.ErrInvalidFontSize
	}

	color, err := model.NormalizeColor(n.Color)
	if err != nil {
		return "", fmt.Errorf("color: %w", err)
	}

	if n.Background != "" {
		bg = n.Background
	}
	if bg == "" {
		bg = model.DefaultBackground
	}
	background, err := model.NormalizeColor(bg)
	if err != nil {
		return "", fmt.Errorf("background: %w", err)
	}

	if padding < 0 {
		padding = 0
	}

	var buf bytes.Buffer
	if err := noticeTemplate.Execute(&buf, noticeStyle{
		FontSize:   n.FontSize,
		Color:      color,
		Background: background,
		Padding:    padding,
	}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
