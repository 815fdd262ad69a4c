package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/fsnotice/internal/dbus"
)

// callTimeout bounds non-blocking D-Bus calls.
const callTimeout = 5 * time.Second

var sendOpts struct {
	text  string
	size  int
	color string
	wait  bool
}

var sendCmd = &cobra.Command{
	Use:   "send [text...]",
	Short: "Send a notice to fsnoticed",
	Long: `Send a notice to a running fsnoticed over D-Bus and print its ID.

The daemon validates size and color against its own configuration. A size
of 0 selects the daemon's initial size.

Examples:
  fsnotice send "Lunch is ready"
  fsnotice send -t "FIRE DRILL" -s 400 -c "#ff0000" --wait`,
	RunE: runSend,
}

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Close the notice fsnoticed is presenting",
	Args:  cobra.NoArgs,
	RunE:  runClose,
}

var statusOpts struct {
	json bool
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether fsnoticed is presenting",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(statusCmd)

	sendCmd.Flags().StringVarP(&sendOpts.text, "text", "t", "",
		"Notice text")
	sendCmd.Flags().IntVarP(&sendOpts.size, "size", "s", 0,
		"Font size (0 = daemon's initial size)")
	sendCmd.Flags().StringVarP(&sendOpts.color, "color", "c", "",
		"Text color (default: daemon's configured color)")
	sendCmd.Flags().BoolVarP(&sendOpts.wait, "wait", "w", false,
		"Wait until the notice is closed and print the reason")

	statusCmd.Flags().BoolVar(&statusOpts.json, "json", false,
		"Output as JSON")
}

// connect returns a client for a running daemon.
func connect(ctx context.Context) (*dbus.Client, error) {
	client, err := dbus.NewClient()
	if err != nil {
		return nil, err
	}
	if !client.Running(ctx) {
		_ = client.Disconnect()
		return nil, errors.New("fsnoticed is not running")
	}
	return client, nil
}

func runSend(cmd *cobra.Command, args []string) error {
	text := sendOpts.text
	if text == "" {
		text = strings.Join(args, " ")
	}

	client, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect() }()

	if sendOpts.wait {
		id, reason, err := client.PresentAndWait(cmd.Context(), text, sendOpts.size, sendOpts.color)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", id, reason)
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
	defer cancel()

	id, err := client.Present(ctx, text, sendOpts.size, sendOpts.color)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func runClose(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
	defer cancel()

	client, err := connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect() }()

	closed, err := client.Close(ctx)
	if err != nil {
		return err
	}
	if !closed {
		fmt.Fprintln(os.Stderr, "Nothing is being presented")
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
	defer cancel()

	var (
		running bool
		st      dbus.State
	)
	client, err := connect(ctx)
	if err == nil {
		defer func() { _ = client.Disconnect() }()
		running = true
		if st, err = client.State(ctx); err != nil {
			return err
		}
	}

	if statusOpts.json {
		return json.NewEncoder(os.Stdout).Encode(struct {
			Running    bool   `json:"running"`
			Presenting bool   `json:"presenting"`
			ID         string `json:"id,omitempty"`
		}{running, st.Presenting, st.ID})
	}

	switch {
	case !running:
		fmt.Println("fsnoticed is not running")
	case st.Presenting:
		fmt.Printf("presenting %s\n", st.ID)
	default:
		fmt.Println("idle")
	}
	return nil
}
