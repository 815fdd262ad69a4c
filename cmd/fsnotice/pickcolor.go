package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/fsnotice/internal/display"
	"github.com/jmylchreest/fsnotice/internal/model"
)

var pickColorOpts struct {
	initial string
}

var pickColorCmd = &cobra.Command{
	Use:   "pick-color",
	Short: "Open the GTK color chooser and print the result",
	Long: `Open the native color chooser. The chosen color is printed to stdout
as #rrggbb. Nothing is printed if the chooser is cancelled.

The editor runs this command for ctrl+n.`,
	Args: cobra.NoArgs,
	RunE: runPickColor,
}

func init() {
	rootCmd.AddCommand(pickColorCmd)

	pickColorCmd.Flags().StringVar(&pickColorOpts.initial, "initial", model.DefaultColor,
		"Initially selected color")
}

func runPickColor(cmd *cobra.Command, args []string) error {
	color, ok, err := display.PickColor(cmd.Context(), pickColorOpts.initial, logger)
	if err != nil {
		return err
	}
	if ok {
		fmt.Println(color)
	}
	return nil
}
