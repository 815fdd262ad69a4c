package display

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDisplay is returned when no GDK display can be opened.
	ErrNoDisplay = errors.New("no display available")

	// ErrExitStatus is returned when a GTK application exits non-zero.
	ErrExitStatus = errors.New("application exited with non-zero status")
)

// PresentError reports which presentation step failed and for which notice.
type PresentError struct {
	Op       string // show, update, style, pick, run
	NoticeID string
	Err      error
}

func (e *PresentError) Error() string {
	if e.NoticeID != "" {
		return fmt.Sprintf("%s notice %s: %v", e.Op, e.NoticeID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PresentError) Unwrap() error {
	return e.Err
}
