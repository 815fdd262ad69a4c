// Package tui provides the BubbleTea-based notice editor.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/fsnotice/internal/config"
	"github.com/jmylchreest/fsnotice/internal/model"
	"github.com/jmylchreest/fsnotice/internal/store"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeEdit Mode = iota
	ModePalette
	ModeHistory
	ModePreview
	ModeHelp
)

// field is the focused editor field.
type field int

const (
	fieldText field = iota
	fieldSize
	fieldColor
	fieldCount
)

// Text area height bounds.
const (
	minTextLines = 3
	maxTextLines = 5
)

// Model is the notice editor.
type Model struct {
	// Configuration
	cfg   *config.Config
	store *store.Store

	mode  Mode
	focus field

	// Components
	text        textarea.Model
	size        SpinBox
	palette     list.Model
	customInput textinput.Model
	history     list.Model
	help        help.Model

	// State
	color         string
	customEntry   bool
	width         int
	height        int
	ready         bool
	result        *model.Notice
	releaseDialog func()

	guard *dialogGuard
	pick  PickFunc
	keys  KeyMap

	// Status message
	statusMsg string
	statusErr bool

	// Refresh channel subscription
	refreshCh <-chan store.ChangeEvent
}

// New creates an editor. s may be nil, which disables history.
func New(cfg *config.Config, s *store.Store) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	ta := textarea.New()
	ta.Placeholder = "Type the notice..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(minTextLines)
	ta.Focus()

	custom := textinput.New()
	custom.Placeholder = "#rrggbb"
	custom.CharLimit = 32

	m := Model{
		cfg:         cfg,
		store:       s,
		mode:        ModeEdit,
		focus:       fieldText,
		text:        ta,
		size:        NewSpinBox(cfg.SizeStepper),
		palette:     newPaletteList(cfg.Palette()),
		customInput: custom,
		history:     newHistoryList(),
		help:        help.New(),
		color:       model.DefaultColor,
		guard:       &dialogGuard{},
		pick:        ExecPicker,
		keys:        DefaultKeyMap(),
	}
	if hex, err := model.NormalizeColor(cfg.Color.Default); err == nil {
		m.color = hex
	}

	if s != nil {
		m.refreshCh = s.Subscribe()
	}

	return m
}

// SetPicker replaces the native color chooser.
func (m *Model) SetPicker(pick PickFunc) {
	m.pick = pick
}

// Load fills the editor from n.
func (m *Model) Load(n model.Notice) {
	m.text.SetValue(n.Text)
	if n.FontSize > 0 {
		m.size.SetValue(n.FontSize)
	}
	if hex, err := model.NormalizeColor(n.Color); err == nil {
		m.color = hex
	}
}

// Result returns the notice to present, or nil if the editor was quit.
func (m Model) Result() *model.Notice {
	return m.result
}

// Color returns the selected color.
func (m Model) Color() string {
	return m.color
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.watchForChanges,
	)
}

// watchForChanges waits for a store change.
func (m Model) watchForChanges() tea.Msg {
	if m.refreshCh == nil {
		return nil
	}
	if _, ok := <-m.refreshCh; !ok {
		return nil
	}
	return refreshMsg{}
}

type refreshMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

func setStatus(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case SpinBoxChangedMsg:
		return m, nil

	case SpinBoxRejectedMsg:
		return m, setStatus(fmt.Sprintf("Size %q rejected: %v", msg.Raw, msg.Err), true)

	case pickedColorMsg:
		m.closeDialog()
		switch {
		case msg.err != nil:
			return m, setStatus(msg.err.Error(), true)
		case msg.ok:
			m.color = msg.color
			return m, setStatus("Color "+msg.color, false)
		}
		return m, nil

	case refreshMsg:
		if m.mode == ModeHistory {
			m.loadHistory()
		}
		return m, m.watchForChanges

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, setStatus("Copy failed: "+msg.err.Error(), true)
		}
		return m, setStatus("Copied to clipboard", false)
	}

	// Forward everything else (cursor blink etc.) to the active component.
	var cmd tea.Cmd
	switch m.mode {
	case ModeEdit:
		switch m.focus {
		case fieldText:
			m.text, cmd = m.text.Update(msg)
		case fieldSize:
			m.size, cmd = m.size.Update(msg)
		}
	case ModePalette:
		if m.customEntry {
			m.customInput, cmd = m.customInput.Update(msg)
		} else {
			m.palette, cmd = m.palette.Update(msg)
		}
	case ModeHistory:
		m.history, cmd = m.history.Update(msg)
	}
	return m, cmd
}

func (m *Model) resize() {
	lines := m.height - 10
	lines = max(minTextLines, min(maxTextLines, lines))
	m.text.SetHeight(lines)
	m.text.SetWidth(max(20, m.width-2))
	m.palette.SetSize(m.width, max(5, m.height-2))
	m.history.SetSize(m.width, max(5, m.height-2))
	m.help.Width = m.width
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.closeDialog()
		return m, tea.Quit
	}

	switch m.mode {
	case ModeEdit:
		return m.handleEditKey(msg)
	case ModePalette:
		return m.handlePaletteKey(msg)
	case ModeHistory:
		return m.handleHistoryKey(msg)
	case ModePreview:
		m.mode = ModeEdit
		return m, nil
	case ModeHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.mode = ModeEdit
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Present):
		cmd := m.commitSize()
		n, err := m.compose()
		if err != nil {
			return m, tea.Batch(cmd, setStatus(err.Error(), true))
		}
		m.result = &n
		return m, tea.Quit

	case key.Matches(msg, m.keys.Preview):
		cmd := m.commitSize()
		m.mode = ModePreview
		return m, cmd

	case key.Matches(msg, m.keys.Palette):
		return m.openPalette()

	case key.Matches(msg, m.keys.NativePicker):
		return m.openNativePicker()

	case key.Matches(msg, m.keys.History):
		if m.store == nil {
			return m, setStatus("History is not available", true)
		}
		m.loadHistory()
		m.mode = ModeHistory
		return m, nil

	case key.Matches(msg, m.keys.CopyYAML):
		cmd := m.commitSize()
		n, err := m.compose()
		if err != nil {
			return m, tea.Batch(cmd, setStatus(err.Error(), true))
		}
		out, err := noticeYAML(n)
		if err != nil {
			return m, tea.Batch(cmd, setStatus(err.Error(), true))
		}
		return m, tea.Batch(cmd, m.copyToClipboard(out))

	case key.Matches(msg, m.keys.NextField):
		return m, m.setFocus((m.focus + 1) % fieldCount)

	case key.Matches(msg, m.keys.PrevField):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldText:
		m.text, cmd = m.text.Update(msg)
	case fieldSize:
		m.size, cmd = m.size.Update(msg)
	case fieldColor:
		if key.Matches(msg, m.keys.Select) {
			return m.openPalette()
		}
	}
	return m, cmd
}

// setFocus moves focus, committing the size field when it loses focus.
func (m *Model) setFocus(f field) tea.Cmd {
	if f == m.focus {
		return nil
	}

	var cmds []tea.Cmd
	switch m.focus {
	case fieldText:
		m.text.Blur()
	case fieldSize:
		cmds = append(cmds, m.size.Blur())
	}

	m.focus = f
	switch f {
	case fieldText:
		cmds = append(cmds, m.text.Focus())
	case fieldSize:
		cmds = append(cmds, m.size.Focus())
	}
	return tea.Batch(cmds...)
}

// commitSize submits pending size text if the size field is focused.
func (m *Model) commitSize() tea.Cmd {
	if m.focus != fieldSize {
		return nil
	}
	return m.size.Submit()
}

// compose builds the notice from the editor state.
func (m Model) compose() (model.Notice, error) {
	n, err := model.NewNotice(model.SourceTUI)
	if err != nil {
		return model.Notice{}, err
	}
	n.Text = m.text.Value()
	n.FontSize = m.size.Value()
	n.Color = m.color
	n.Background = m.cfg.Display.Background

	if err := n.Validate(); err != nil {
		return model.Notice{}, err
	}
	return *n, nil
}

func (m Model) openPalette() (tea.Model, tea.Cmd) {
	release, ok := m.guard.acquire()
	if !ok {
		return m, nil
	}
	m.releaseDialog = release
	m.customEntry = false
	m.palette.Select(0)
	for i, item := range m.palette.Items() {
		if ci, ok := item.(colorItem); ok && ci.hex == m.color {
			m.palette.Select(i)
			break
		}
	}
	m.mode = ModePalette
	return m, nil
}

func (m Model) openNativePicker() (tea.Model, tea.Cmd) {
	if !m.cfg.Color.NativePicker || m.pick == nil {
		return m, setStatus("Native color chooser is disabled", true)
	}
	release, ok := m.guard.acquire()
	if !ok {
		return m, nil
	}
	m.releaseDialog = release
	return m, tea.Batch(setStatus("Opening color chooser...", false), runPicker(m.pick, m.color))
}

// closeDialog releases the dialog guard if held.
func (m *Model) closeDialog() {
	if m.releaseDialog != nil {
		m.releaseDialog()
		m.releaseDialog = nil
	}
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.customEntry {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.customEntry = false
			m.customInput.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Select):
			hex, err := model.NormalizeColor(m.customInput.Value())
			if err != nil {
				return m, setStatus(err.Error(), true)
			}
			m.color = hex
			m.customEntry = false
			m.customInput.Blur()
			m.closeDialog()
			m.mode = ModeEdit
			return m, nil
		}
		var cmd tea.Cmd
		m.customInput, cmd = m.customInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeDialog()
		m.mode = ModeEdit
		return m, nil
	case key.Matches(msg, m.keys.Select):
		item, ok := m.palette.SelectedItem().(colorItem)
		if !ok {
			return m, nil
		}
		if item.custom {
			m.customEntry = true
			m.customInput.SetValue(m.color)
			m.customInput.CursorEnd()
			return m, m.customInput.Focus()
		}
		m.color = item.hex
		m.closeDialog()
		m.mode = ModeEdit
		return m, nil
	}

	var cmd tea.Cmd
	m.palette, cmd = m.palette.Update(msg)
	return m, cmd
}

func (m *Model) loadHistory() {
	if m.store == nil {
		return
	}
	m.history.SetItems(historyItems(m.store.Recent(historyLimit)))
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.history.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		if m.history.FilterState() == list.FilterApplied {
			m.history.ResetFilter()
			return m, nil
		}
		m.mode = ModeEdit
		return m, nil

	case key.Matches(msg, m.keys.Select):
		item, ok := m.history.SelectedItem().(historyItem)
		if !ok {
			return m, nil
		}
		m.Load(item.notice)
		m.mode = ModeEdit
		return m, setStatus("Recalled notice", false)

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.history.SelectedItem().(historyItem)
		if !ok {
			return m, nil
		}
		if err := m.store.Delete(item.notice.ID); err != nil {
			return m, setStatus("Delete failed: "+err.Error(), true)
		}
		m.loadHistory()
		return m, setStatus("Deleted", false)
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		err := copyText(text, m.cfg)
		return copyResultMsg{err: err}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeEdit:
		return m.viewEdit()
	case ModePalette:
		return m.viewPalette()
	case ModeHistory:
		return m.history.View() + "\n" + m.footer([]keybind{
			{"enter", "recall", 1},
			{"d", "delete", 2},
			{"/", "filter", 3},
			{"esc", "back", 4},
		})
	case ModePreview:
		return m.viewPreview()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) viewEdit() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("fsnotice") + "\n\n")

	label := labelStyle
	if m.focus == fieldText {
		label = focusedLabelStyle
	}
	b.WriteString(label.Render("Text") + "\n")
	b.WriteString(m.text.View() + "\n\n")

	colorLabel := labelStyle
	if m.focus == fieldColor {
		colorLabel = focusedLabelStyle
	}
	b.WriteString(m.size.View() + "    " +
		colorLabel.Render("Color:") + " " + swatch(m.color) + " " + m.color + "\n\n")

	b.WriteString(m.footer([]keybind{
		{"ctrl+s", "present", 1},
		{"tab", "field", 2},
		{"ctrl+p", "preview", 3},
		{"ctrl+o", "palette", 4},
		{"f1", "help", 5},
		{"ctrl+c", "quit", 6},
		{"ctrl+h", "history", 7},
		{"ctrl+n", "chooser", 8},
		{"ctrl+y", "yaml", 9},
	}))
	return b.String()
}

func (m Model) viewPalette() string {
	if m.customEntry {
		return titleStyle.Render("Custom color") + "\n\n" +
			m.customInput.View() + "\n\n" +
			m.footer([]keybind{{"enter", "apply", 1}, {"esc", "back", 2}})
	}
	return m.palette.View() + "\n" + m.footer([]keybind{
		{"enter", "select", 1},
		{"esc", "cancel", 2},
	})
}

// viewPreview approximates the presentation in the terminal.
func (m Model) viewPreview() string {
	n := model.Notice{Text: m.text.Value()}
	bg := m.cfg.Display.Background
	if bg == "" {
		bg = model.DefaultBackground
	}

	body := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.color)).
		Background(lipgloss.Color(bg)).
		Align(lipgloss.Center).
		Render(n.DisplayText())

	info := sectionStyle.Render(fmt.Sprintf("size %d - %s - any key to return", m.size.Value(), m.color))

	return lipgloss.Place(m.width, max(1, m.height-1), lipgloss.Center, lipgloss.Center, body,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(bg))) + "\n" + info
}

func (m Model) viewHelp() string {
	h := m.help
	h.ShowAll = true
	return titleStyle.Render("Keyboard Shortcuts") + "\n\n" +
		h.View(m.keys) + "\n\n" +
		sectionStyle.Render("Size field: ↑/+ and ↓/- step, enter applies") + "\n\n" +
		sectionStyle.Render("Press f1 or esc to return")
}

// footer shows the status message if set, otherwise the keybind bar.
func (m Model) footer(binds []keybind) string {
	if m.statusMsg != "" {
		if m.statusErr {
			return statusErrorStyle.Render(m.statusMsg)
		}
		return statusStyle.Render(m.statusMsg)
	}
	return buildKeybindBar(m.width, binds)
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key      string
	desc     string
	priority int // lower = more important (shown first)
}

// buildKeybindBar builds a keybind bar that fits within the given width.
func buildKeybindBar(width int, binds []keybind) string {
	const separator = "  "
	var b strings.Builder
	used := 0
	for _, kb := range binds {
		plain := len(kb.key) + 1 + len(kb.desc)
		next := used + plain
		if used > 0 {
			next += len(separator)
		}
		if width > 0 && next > width {
			break
		}
		if used > 0 {
			b.WriteString(separator)
		}
		b.WriteString(keyStyle.Render(kb.key) + " " + sectionStyle.Render(kb.desc))
		used = next
	}
	return b.String()
}

// RunOptions configures the TUI.
type RunOptions struct {
	Config      *config.Config
	Store       *store.Store
	PersistPath string        // History file to watch for changes (empty = no watching)
	Initial     *model.Notice // Editor state to restore
	Logger      *slog.Logger
}

// Run starts the editor and returns the notice to present, or nil if the
// operator quit.
func Run(opts RunOptions) (*model.Notice, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := opts.Store
	if s == nil {
		s = store.NewStore(nil)
	}

	var watcher *store.FileWatcher
	if opts.PersistPath != "" {
		var err error
		watcher, err = store.NewFileWatcher(s, opts.PersistPath, logger)
		if err != nil {
			logger.Warn("failed to create history watcher", "error", err)
		} else if err := watcher.Start(); err != nil {
			logger.Warn("failed to start history watcher", "error", err)
			watcher = nil
		}
	}

	m := New(opts.Config, s)
	if opts.Initial != nil {
		m.Load(*opts.Initial)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()

	if watcher != nil {
		_ = watcher.Stop()
	}
	s.Unsubscribe(m.refreshCh)

	if err != nil {
		return nil, err
	}
	if fm, ok := final.(Model); ok {
		return fm.Result(), nil
	}
	return nil, nil
}
