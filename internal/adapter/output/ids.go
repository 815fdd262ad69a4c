package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/fsnotice/internal/model"
)

// IDsFormatter outputs just the notice IDs, one per line.
type IDsFormatter struct{}

// NewIDsFormatter creates a new IDs formatter.
func NewIDsFormatter() *IDsFormatter {
	return &IDsFormatter{}
}

// Format writes notice IDs to the writer, one per line.
func (f *IDsFormatter) Format(w io.Writer, notices []model.Notice) error {
	for _, n := range notices {
		if _, err := fmt.Fprintln(w, n.ID); err != nil {
			return err
		}
	}
	return nil
}
