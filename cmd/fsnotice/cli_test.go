package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/fsnotice/internal/adapter/output"
	"github.com/jmylchreest/fsnotice/internal/config"
	"github.com/jmylchreest/fsnotice/internal/model"
	"github.com/jmylchreest/fsnotice/internal/stepper"
)

func TestResolveSize(t *testing.T) {
	clamp := config.DefaultConfig()
	reject := config.DefaultConfig()
	reject.Size.Policy = "reject"

	tests := []struct {
		name    string
		cfg     *config.Config
		size    int
		want    int
		wantErr error
	}{
		{"initial", clamp, 0, config.DefaultSizeInitial, nil},
		{"in range", clamp, 250, 250, nil},
		{"clamp high", clamp, 9999, config.DefaultSizeMax, nil},
		{"clamp low", clamp, 1, config.DefaultSizeMin, nil},
		{"reject in range", reject, 250, 250, nil},
		{"reject high", reject, 9999, 0, stepper.ErrOutOfRange},
		{"reject negative", reject, -5, 0, stepper.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveSize(tt.cfg, tt.size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildNotice(t *testing.T) {
	c := config.DefaultConfig()

	n, err := buildNotice(c, "hello", 0, "", model.SourceCLI)
	require.NoError(t, err)
	assert.Equal(t, "hello", n.Text)
	assert.Equal(t, config.DefaultSizeInitial, n.FontSize)
	assert.Equal(t, model.DefaultColor, n.Color)
	assert.Equal(t, c.Display.Background, n.Background)
	assert.Equal(t, model.SourceCLI, n.Source)

	n, err = buildNotice(c, "", 300, "Red", model.SourceCLI)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", n.Color)
	assert.Equal(t, model.EmptyText, n.DisplayText())

	_, err = buildNotice(c, "x", 0, "not-a-color", model.SourceCLI)
	assert.ErrorIs(t, err, model.ErrInvalidColor)
}

func TestWriteHistory(t *testing.T) {
	n, err := model.NewNotice(model.SourceCLI)
	require.NoError(t, err)
	n.Text = "Back soon"
	n.FontSize = 200
	notices := []model.Notice{*n}
	opts := output.DefaultFormatterOptions()

	var plain bytes.Buffer
	require.NoError(t, writeHistory(&plain, notices, output.FormatPlain, opts))
	assert.Contains(t, plain.String(), "Back soon")

	var dmenu bytes.Buffer
	require.NoError(t, writeHistory(&dmenu, notices, output.FormatDmenu, opts))
	assert.True(t, strings.HasPrefix(dmenu.String(), "1 | "))
	assert.Contains(t, dmenu.String(), "200")

	var js bytes.Buffer
	require.NoError(t, writeHistory(&js, notices, output.FormatJSON, opts))
	var decoded []model.Notice
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, n.ID, decoded[0].ID)

	var ym bytes.Buffer
	require.NoError(t, writeHistory(&ym, notices, output.FormatYAML, opts))
	assert.Contains(t, ym.String(), "text: Back soon")

	var empty bytes.Buffer
	require.NoError(t, writeHistory(&empty, nil, output.FormatPlain, opts))
	assert.Contains(t, empty.String(), "No notices")

	assert.Error(t, writeHistory(&empty, notices, "xml", opts))
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"3", "3"},
		{"  01HQABC  ", "01HQABC"},
		{"3 | 5m | 200 | #ffffff | Back soon", "3"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRef(tt.input))
		})
	}
}

func TestReadRef(t *testing.T) {
	ref, err := readRef(strings.NewReader("2 | 1m | text\nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "2 | 1m | text", ref)

	_, err = readRef(strings.NewReader(""))
	assert.Error(t, err)
}
