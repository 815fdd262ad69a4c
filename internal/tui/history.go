package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/jmylchreest/fsnotice/internal/model"
)

// historyLimit bounds the history list.
const historyLimit = 100

// historyItem wraps a recorded notice for the list component.
type historyItem struct {
	notice model.Notice
}

func (i historyItem) Title() string {
	return i.notice.Truncated(60)
}

func (i historyItem) Description() string {
	return fmt.Sprintf("%s %s - size %d - %s",
		swatch(i.notice.Color), i.notice.Color, i.notice.FontSize, i.notice.RelativeTime())
}

func (i historyItem) FilterValue() string {
	return i.notice.Text
}

func newHistoryList() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Recent Notices"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	return l
}

func historyItems(ns []model.Notice) []list.Item {
	items := make([]list.Item, len(ns))
	for i, n := range ns {
		items[i] = historyItem{notice: n}
	}
	return items
}
