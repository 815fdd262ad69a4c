package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/fsnotice/internal/config"
	"github.com/jmylchreest/fsnotice/internal/model"
	"github.com/jmylchreest/fsnotice/internal/store"
)

func newTestModel(t *testing.T, s *store.Store) Model {
	t.Helper()
	m := New(config.DefaultConfig(), s)
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		m, _ = update(m, k)
	}
	return m
}

func typeRunes(m Model, s string) Model {
	for _, r := range s {
		m, _ = update(m, keyMsg(string(r)))
	}
	return m
}

func ctrl(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func TestModel_PresentReturnsNotice(t *testing.T) {
	m := newTestModel(t, nil)
	m = typeRunes(m, "Back in 5")

	m, cmd := update(m, ctrl(tea.KeyCtrlS))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	n := m.Result()
	require.NotNil(t, n)
	assert.Equal(t, "Back in 5", n.Text)
	assert.Equal(t, config.DefaultSizeInitial, n.FontSize)
	assert.Equal(t, model.DefaultColor, n.Color)
	assert.Equal(t, model.SourceTUI, n.Source)
	assert.NoError(t, n.Validate())
}

func TestModel_QuitHasNoResult(t *testing.T) {
	m := newTestModel(t, nil)
	m, cmd := update(m, ctrl(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Nil(t, m.Result())
}

func TestModel_SizeFieldCommitsOnBlur(t *testing.T) {
	m := newTestModel(t, nil)

	m = press(m, keyMsg("tab"))
	require.True(t, m.size.Focused())

	m = press(m, keyMsg("backspace"), keyMsg("backspace"), keyMsg("backspace"))
	m = typeRunes(m, "300")
	assert.Equal(t, 100, m.size.Value(), "typing does not commit")

	m = press(m, keyMsg("tab"))
	assert.False(t, m.size.Focused())
	assert.Equal(t, 300, m.size.Value())
}

func TestModel_PresentCommitsPendingSize(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(m, keyMsg("tab"))
	m = press(m, keyMsg("backspace"), keyMsg("backspace"), keyMsg("backspace"))
	m = typeRunes(m, "9999")

	m, _ = update(m, ctrl(tea.KeyCtrlS))
	require.NotNil(t, m.Result())
	assert.Equal(t, config.DefaultSizeMax, m.Result().FontSize)
}

func TestModel_SizeKeys(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(m, keyMsg("tab"), keyMsg("up"), keyMsg("up"), keyMsg("-"))
	assert.Equal(t, 101, m.size.Value())
}

func TestModel_RejectedSizeShowsStatus(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(m, keyMsg("tab"))
	m = typeRunes(m, "x")

	m, cmd := update(m, keyMsg("enter"))
	msg := runCmd(t, cmd)
	m, _ = update(m, msg)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.statusMsg, "rejected")
}

func TestModel_PaletteSelect(t *testing.T) {
	m := newTestModel(t, nil)

	m = press(m, ctrl(tea.KeyCtrlO))
	require.Equal(t, ModePalette, m.mode)

	_, ok := m.guard.acquire()
	assert.False(t, ok, "guard held while palette is open")

	m = press(m, keyMsg("down"), keyMsg("enter"))
	assert.Equal(t, ModeEdit, m.mode)
	assert.Equal(t, config.DefaultPalette[1], m.Color())

	release, ok := m.guard.acquire()
	require.True(t, ok, "guard released on select")
	release()
}

func TestModel_PaletteCancelReleasesGuard(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(m, ctrl(tea.KeyCtrlO), keyMsg("down"), keyMsg("esc"))

	assert.Equal(t, ModeEdit, m.mode)
	assert.Equal(t, model.DefaultColor, m.Color())

	release, ok := m.guard.acquire()
	require.True(t, ok)
	release()
}

func TestModel_PaletteCustomHex(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(m, ctrl(tea.KeyCtrlO), keyMsg("G"), keyMsg("enter"))
	require.True(t, m.customEntry)

	for range m.customInput.Value() {
		m = press(m, keyMsg("backspace"))
	}
	m = typeRunes(m, "nope")
	m, _ = update(m, keyMsg("enter"))
	assert.True(t, m.customEntry, "invalid color keeps the entry open")

	for range m.customInput.Value() {
		m = press(m, keyMsg("backspace"))
	}
	m = typeRunes(m, "#0F0")
	m = press(m, keyMsg("enter"))

	assert.Equal(t, ModeEdit, m.mode)
	assert.Equal(t, "#00ff00", m.Color())
}

func TestModel_NativePicker(t *testing.T) {
	m := newTestModel(t, nil)
	calls := 0
	m.SetPicker(func(_ context.Context, initial string) (string, bool, error) {
		calls++
		assert.Equal(t, model.DefaultColor, initial)
		return "#123456", true, nil
	})

	m, cmd := update(m, ctrl(tea.KeyCtrlN))
	require.NotNil(t, cmd)

	// A second picker is ignored while the first is open.
	m = press(m, ctrl(tea.KeyCtrlO))
	assert.Equal(t, ModeEdit, m.mode)
	_, cmd2 := update(m, ctrl(tea.KeyCtrlN))
	assert.Nil(t, cmd2)

	msg := runPicker(m.pick, m.Color())()
	m, _ = update(m, msg)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "#123456", m.Color())

	release, ok := m.guard.acquire()
	require.True(t, ok)
	release()
}

func TestModel_NativePickerCancelKeepsColor(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(m, ctrl(tea.KeyCtrlN))

	m, cmd := update(m, pickedColorMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, model.DefaultColor, m.Color())

	release, ok := m.guard.acquire()
	require.True(t, ok)
	release()
}

func TestModel_NativePickerDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Color.NativePicker = false
	m := New(cfg, nil)

	m, cmd := update(m, ctrl(tea.KeyCtrlN))
	m, _ = update(m, runCmd(t, cmd))
	assert.True(t, m.statusErr)
}

func TestModel_Preview(t *testing.T) {
	m := newTestModel(t, nil)
	m = typeRunes(m, "Quiet please")
	m = press(m, ctrl(tea.KeyCtrlP))

	require.Equal(t, ModePreview, m.mode)
	assert.Contains(t, m.View(), "Quiet please")

	m = press(m, keyMsg("x"))
	assert.Equal(t, ModeEdit, m.mode)
	assert.Equal(t, "Quiet please", m.text.Value(), "keys in preview do not edit")
}

func TestModel_PreviewEmptyText(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(m, ctrl(tea.KeyCtrlP))
	assert.Contains(t, m.View(), model.EmptyText)
}

func TestModel_HistoryRecallAndDelete(t *testing.T) {
	s := store.NewStore(nil)
	older, err := model.NewNotice(model.SourceTUI)
	require.NoError(t, err)
	older.Text = "older"
	older.CreatedAt = time.Now().Add(-time.Hour).Unix()
	newer, err := model.NewNotice(model.SourceTUI)
	require.NoError(t, err)
	newer.Text = "newer"
	newer.FontSize = 250
	newer.Color = "#ff0000"
	require.NoError(t, s.Add(*older))
	require.NoError(t, s.Add(*newer))

	m := newTestModel(t, s)
	m = press(m, ctrl(tea.KeyCtrlH))
	require.Equal(t, ModeHistory, m.mode)
	require.Len(t, m.history.Items(), 2)

	m = press(m, keyMsg("d"))
	assert.Nil(t, s.Get(newer.ID))
	require.Len(t, m.history.Items(), 1)

	m = press(m, keyMsg("enter"))
	assert.Equal(t, ModeEdit, m.mode)
	assert.Equal(t, "older", m.text.Value())

	require.NoError(t, s.Add(*newer))
	m = press(m, ctrl(tea.KeyCtrlH), keyMsg("enter"))
	assert.Equal(t, "newer", m.text.Value())
	assert.Equal(t, 250, m.size.Value())
	assert.Equal(t, "#ff0000", m.Color())
}

func TestModel_HistoryUnavailable(t *testing.T) {
	m := newTestModel(t, nil)
	m, cmd := update(m, ctrl(tea.KeyCtrlH))
	assert.Equal(t, ModeEdit, m.mode)
	m, _ = update(m, runCmd(t, cmd))
	assert.True(t, m.statusErr)
}

func TestModel_Load(t *testing.T) {
	m := newTestModel(t, nil)
	m.Load(model.Notice{Text: "hi", FontSize: 9999, Color: "YELLOW"})

	assert.Equal(t, "hi", m.text.Value())
	assert.Equal(t, config.DefaultSizeMax, m.size.Value())
	assert.Equal(t, "#ffff00", m.Color())
}

func TestModel_HelpToggle(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(m, ctrl(tea.KeyF1))
	require.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = press(m, keyMsg("esc"))
	assert.Equal(t, ModeEdit, m.mode)
}

func TestModel_StatusClears(t *testing.T) {
	m := newTestModel(t, nil)
	m, cmd := update(m, statusMsg{text: "hello"})
	assert.Equal(t, "hello", m.statusMsg)
	require.NotNil(t, cmd)

	m, _ = update(m, clearStatusMsg{})
	assert.Empty(t, m.statusMsg)
}

func TestBuildKeybindBar(t *testing.T) {
	binds := []keybind{{"a", "alpha", 1}, {"b", "beta", 2}, {"c", "gamma", 3}}

	full := buildKeybindBar(0, binds)
	assert.Contains(t, full, "gamma")

	narrow := buildKeybindBar(len("a alpha  b beta"), binds)
	assert.Contains(t, narrow, "beta")
	assert.NotContains(t, narrow, "gamma")
}
