package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/fsnotice/internal/config"
	"github.com/jmylchreest/fsnotice/internal/model"
)

func TestDetectClipboardCommand_Configured(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Clipboard.Command = "cat"
	assert.Equal(t, "cat", detectClipboardCommand(cfg))
}

func TestNoticeYAML(t *testing.T) {
	out, err := noticeYAML(model.Notice{ID: "x", Text: "line one\nline two", FontSize: 120, Color: "#ff0000"})
	require.NoError(t, err)
	assert.NotContains(t, out, "id:")

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "line one\nline two", got["text"])
	assert.Equal(t, 120, got["font_size"])
	assert.Equal(t, "#ff0000", got["color"])
}

func TestCopyText_ConfiguredCommand(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Clipboard.Command = "true"
	assert.NoError(t, copyText("hello", cfg))

	cfg.Clipboard.Command = "false"
	assert.Error(t, copyText("hello", cfg))
}
