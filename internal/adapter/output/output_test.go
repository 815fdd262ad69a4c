package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/fsnotice/internal/model"
)

func createTestNotices() []model.Notice {
	now := time.Now()
	return []model.Notice{
		{
			ID:          "01HQGXK5P0000000000000001",
			Source:      model.SourceTUI,
			Text:        "Back in\nfive minutes",
			FontSize:    200,
			Color:       "#ffffff",
			CreatedAt:   now.Add(-10 * time.Minute).Unix(),
			PresentedAt: now.Add(-5 * time.Minute).Unix(),
		},
		{
			ID:        "01HQGXK5P0000000000000002",
			Source:    model.SourceCLI,
			Text:      "",
			FontSize:  100,
			Color:     "#ff0000",
			CreatedAt: now.Add(-2 * time.Hour).Unix(),
		},
	}
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []FormatType{FormatPlain, FormatDmenu, FormatJSON, FormatYAML, FormatIDs, ""} {
		f, err := NewFormatter(format, DefaultFormatterOptions())
		require.NoError(t, err, format)
		assert.NotNil(t, f)
	}

	_, err := NewFormatter("xml", DefaultFormatterOptions())
	assert.Error(t, err)

	_, err = NewFormatter(FormatDmenu, FormatterOptions{Template: "{{.Notice.Text"})
	assert.Error(t, err)
}

func TestDmenuFormatter(t *testing.T) {
	f, err := NewDmenuFormatter(DefaultFormatterOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, createTestNotices()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1 | 5m | 200 | #ffffff | Back in five minutes", lines[0])
	assert.Equal(t, "2 | 2h | 100 | #ff0000 | "+model.EmptyText, lines[1])
}

func TestDmenuFormatter_Template(t *testing.T) {
	f, err := NewDmenuFormatter(FormatterOptions{Template: "{{.Index}}:{{.Notice.Color}}:{{oneline .Notice.Text}}"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, createTestNotices()[:1]))
	assert.Equal(t, "1:#ffffff:Back in five minutes\n", buf.String())
}

func TestPlainFormatter(t *testing.T) {
	f, err := NewPlainFormatter(FormatterOptions{ShowIndex: true, TextMaxLen: 10})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, createTestNotices()))

	out := buf.String()
	assert.Contains(t, out, "[1] Back in...")
	assert.Contains(t, out, "size 200, color #ffffff")
	assert.Contains(t, out, "[2] (no con...")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, createTestNotices()))

	var decoded []model.Notice
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, createTestNotices()[0].ID, decoded[0].ID)

	buf.Reset()
	require.NoError(t, NewJSONFormatter().Format(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter().Format(&buf, createTestNotices()))

	var decoded []model.Notice
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Back in\nfive minutes", decoded[0].Text)
	assert.Equal(t, 100, decoded[1].FontSize)
}

func TestIDsFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewIDsFormatter().Format(&buf, createTestNotices()))
	assert.Equal(t, "01HQGXK5P0000000000000001\n01HQGXK5P0000000000000002\n", buf.String())
}

func TestFormatField(t *testing.T) {
	n := createTestNotices()[0]

	tests := []struct {
		field string
		want  string
	}{
		{"id", n.ID},
		{"text", n.Text},
		{"", n.Text},
		{"SIZE", "200"},
		{"color", "#ffffff"},
		{"source", model.SourceTUI},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, err := FormatField(&n, tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatField(&n, "urgency")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 0))
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "he...", truncate("hello world", 5))
	assert.Equal(t, "hel", truncate("hello", 3))
	assert.Equal(t, "ünï...", truncate("ünïcode text", 6))
	assert.Equal(t, "日本...", truncate("日本語テキスト", 7))
}
