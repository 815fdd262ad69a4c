package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/fsnotice/internal/model"
	"github.com/jmylchreest/fsnotice/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the notice editor",
	Long: `Launch the interactive notice editor.

The editor provides:
  - A multi-line text field
  - A font size field bounded by the [size] config
  - A color swatch with palette and native color chooser
  - A terminal preview of the notice
  - Recall from recently presented notices

Key bindings:
  tab         Next field
  ↑/+, ↓/-    Step the size (size field)
  ctrl+s      Present
  ctrl+p      Preview
  ctrl+o      Color palette
  ctrl+n      Native color chooser
  ctrl+h      History (enter recalls, d deletes)
  ctrl+y      Copy notice as YAML
  f1          Show help
  ctrl+c      Quit`,
	RunE: runEditor,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runEditor alternates between the editor and the presentation until the
// operator quits the editor.
func runEditor(cmd *cobra.Command, args []string) error {
	s, err := getStore()
	if err != nil {
		logger.Warn("history unavailable", "error", err)
	}

	var last *model.Notice
	for {
		n, err := tui.Run(tui.RunOptions{
			Config:      getConfig(),
			Store:       s,
			PersistPath: historyPath(),
			Initial:     last,
			Logger:      logger,
		})
		if err != nil {
			return err
		}
		if n == nil {
			return nil
		}
		last = n

		if _, err := presentNotice(cmd.Context(), *n, presentTarget{}); err != nil {
			fmt.Fprintf(os.Stderr, "fsnotice: %v\n", err)
		}
		if cmd.Context().Err() != nil {
			return nil
		}
	}
}
