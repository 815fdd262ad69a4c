package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/fsnotice/internal/audio"
	"github.com/jmylchreest/fsnotice/internal/config"
	"github.com/jmylchreest/fsnotice/internal/dbus"
	"github.com/jmylchreest/fsnotice/internal/display"
	"github.com/jmylchreest/fsnotice/internal/model"
	"github.com/jmylchreest/fsnotice/internal/stepper"
)

var presentOpts struct {
	text    string
	size    int
	color   string
	file    string
	watch   bool
	monitor int
	local   bool
}

var presentCmd = &cobra.Command{
	Use:   "present [text...]",
	Short: "Present a notice without the editor",
	Long: `Present a notice full-screen and wait until it is closed.

The text comes from --file, --text or the arguments, in that order. Size
and color default to the configured initial size and default color. The
size follows the configured policy: with "clamp" it is pulled into range,
with "reject" an out-of-range size is an error.

Examples:
  # Present a one-line notice
  fsnotice present "Back in 5 minutes"

  # Large red text on the second monitor
  fsnotice present -t "ON AIR" -s 300 -c red --monitor 1

  # Show a file and follow edits to it
  fsnotice present --file ~/notice.txt --watch`,
	RunE: runPresent,
}

func init() {
	rootCmd.AddCommand(presentCmd)

	presentCmd.Flags().StringVarP(&presentOpts.text, "text", "t", "",
		"Notice text")
	presentCmd.Flags().IntVarP(&presentOpts.size, "size", "s", 0,
		"Font size (0 = configured initial size)")
	presentCmd.Flags().StringVarP(&presentOpts.color, "color", "c", "",
		"Text color as #rgb, #rrggbb or a name (default: configured color)")
	presentCmd.Flags().StringVar(&presentOpts.file, "file", "",
		"Read the notice text from a file")
	presentCmd.Flags().BoolVar(&presentOpts.watch, "watch", false,
		"Follow changes to --file while presenting")
	presentCmd.Flags().IntVar(&presentOpts.monitor, "monitor", 0,
		"Monitor index (-1 = last; default: configured monitor)")
	presentCmd.Flags().BoolVar(&presentOpts.local, "local", false,
		"Open the window in this process even if fsnoticed is running")
}

func runPresent(cmd *cobra.Command, args []string) error {
	if presentOpts.watch && presentOpts.file == "" {
		return errors.New("--watch requires --file")
	}

	text := presentOpts.text
	if text == "" {
		text = strings.Join(args, " ")
	}
	if presentOpts.file != "" {
		var err error
		text, err = display.ReadTextFile(presentOpts.file)
		if err != nil {
			return err
		}
	}

	n, err := buildNotice(getConfig(), text, presentOpts.size, presentOpts.color, model.SourceCLI)
	if err != nil {
		return err
	}

	target := presentTarget{
		watchPath: presentOpts.file,
		local:     presentOpts.local,
	}
	if !presentOpts.watch {
		target.watchPath = ""
	}
	if cmd.Flags().Changed("monitor") {
		m := presentOpts.monitor
		target.monitor = &m
	}

	reason, err := presentNotice(cmd.Context(), n, target)
	if err != nil {
		return err
	}
	logger.Debug("presentation ended", "id", n.ID, "reason", reason.String())
	return nil
}

// buildNotice composes a notice from CLI input with config defaults.
func buildNotice(c *config.Config, text string, size int, color, source string) (model.Notice, error) {
	n, err := model.NewNotice(source)
	if err != nil {
		return model.Notice{}, err
	}
	n.Text = text
	n.Background = c.Display.Background

	n.FontSize, err = resolveSize(c, size)
	if err != nil {
		return model.Notice{}, err
	}

	if color == "" {
		color = c.Color.Default
	}
	n.Color, err = model.NormalizeColor(color)
	if err != nil {
		return model.Notice{}, fmt.Errorf("color: %w", err)
	}

	return *n, n.Validate()
}

// resolveSize applies the configured size bounds and policy. 0 selects the
// configured initial size.
func resolveSize(c *config.Config, size int) (int, error) {
	var rejected error
	s := c.SizeStepper(stepper.WithOnReject(func(_ string, err error) {
		rejected = err
	}))
	if size == 0 {
		return s.Value(), nil
	}

	s.Set(strconv.Itoa(size))
	if rejected != nil {
		return 0, fmt.Errorf("size %d: %w", size, rejected)
	}
	return s.Value(), nil
}

// presentTarget selects how a notice is presented.
type presentTarget struct {
	watchPath string
	monitor   *int
	local     bool
}

// presentNotice shows n through fsnoticed when it is running, otherwise in
// this process, and blocks until the presentation ends.
func presentNotice(ctx context.Context, n model.Notice, target presentTarget) (dbus.CloseReason, error) {
	daemonOK := !target.local && target.watchPath == "" && target.monitor == nil
	if daemonOK {
		if client, err := dbus.NewClient(); err == nil {
			defer func() { _ = client.Disconnect() }()
			if client.Running(ctx) {
				logger.Debug("presenting through fsnoticed")
				_, reason, err := client.PresentAndWait(ctx, n.Text, n.FontSize, n.Color)
				return reason, err
			}
		} else {
			logger.Debug("session bus unavailable", "error", err)
		}
	}

	return presentLocal(ctx, n, target)
}

func presentLocal(ctx context.Context, n model.Notice, target presentTarget) (dbus.CloseReason, error) {
	c := *getConfig()
	if target.monitor != nil {
		c.Display.Monitor = *target.monitor
	}

	chime := audio.NewChime(&c, logger)
	if err := chime.Start(ctx); err != nil {
		logger.Warn("failed to start chime", "error", err)
	}
	defer chime.Stop()

	s, err := getStore()
	if err != nil {
		logger.Warn("history unavailable", "error", err)
		s = nil
	}

	result, err := display.Run(ctx, &c, n, display.RunOptions{
		WatchPath: target.watchPath,
		Logger:    logger,
		OnPresented: func(presented model.Notice) {
			if s != nil {
				if err := s.Add(presented); err != nil {
					logger.Warn("failed to record notice", "error", err)
				}
			}
			go func() {
				if err := chime.Play(); err != nil {
					logger.Debug("failed to play chime", "error", err)
				}
			}()
		},
	})
	if err != nil {
		return 0, err
	}

	if s != nil && result.Notice.ID != "" {
		if err := s.Add(result.Notice); err != nil {
			logger.Warn("failed to record notice", "error", err)
		}
		if keep := c.History.Keep; keep > 0 && s.Count() > keep {
			if _, err := s.Prune(keep); err != nil {
				logger.Warn("failed to prune history", "error", err)
			}
		}
	}
	return result.Reason, nil
}
