package display

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorIndex(t *testing.T) {
	tests := []struct {
		name       string
		configured int
		count      int
		wantIdx    int
		wantOK     bool
	}{
		{"first", 0, 3, 0, true},
		{"second", 1, 3, 1, true},
		{"last", -1, 3, 2, true},
		{"second from end", -2, 3, 1, true},
		{"too high", 5, 3, 0, false},
		{"too low", -4, 3, 0, false},
		{"single monitor last", -1, 1, 0, true},
		{"no monitors", 0, 0, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := monitorIndex(tt.configured, tt.count)
			assert.Equal(t, tt.wantIdx, idx)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestPresentError(t *testing.T) {
	cause := errors.New("boom")
	err := &PresentError{Op: "style", NoticeID: "01HQ", Err: cause}
	assert.Equal(t, "style notice 01HQ: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	noDisplay := &PresentError{Op: "show", Err: ErrNoDisplay}
	assert.Equal(t, "show: no display available", noDisplay.Error())
	assert.ErrorIs(t, noDisplay, ErrNoDisplay)

	var pe *PresentError
	wrapped := fmt.Errorf("present: %w", &PresentError{Op: "run", Err: fmt.Errorf("%w: %d", ErrExitStatus, 1)})
	require.ErrorAs(t, wrapped, &pe)
	assert.Equal(t, "run", pe.Op)
	assert.ErrorIs(t, wrapped, ErrExitStatus)
}

func TestReadTextFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "notice.txt")
	require.NoError(t, os.WriteFile(path, []byte("Doors close\nin 5 minutes\r\n\n"), 0644))

	text, err := ReadTextFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Doors close\nin 5 minutes", text)

	big := filepath.Join(dir, "big.txt")
	require.NoError(t, os.WriteFile(big, []byte(strings.Repeat("x", MaxTextFileSize+100)), 0644))
	text, err = ReadTextFile(big)
	require.NoError(t, err)
	assert.Len(t, text, MaxTextFileSize)

	_, err = ReadTextFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestWatchTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notice.txt")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0644))

	got := make(chan string, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := WatchTextFile(ctx, path, func(text string) { got <- text }, nil)
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("ignored"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("second\n"), 0644))

	// A truncating write can surface an empty read first.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case text := <-got:
			if text == "second" {
				return
			}
			assert.Empty(t, text)
		case <-deadline:
			t.Fatal("no reload")
		}
	}
}
