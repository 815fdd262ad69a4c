package tui

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/fsnotice/internal/config"
	"github.com/jmylchreest/fsnotice/internal/model"
)

// copyText copies text to the system clipboard. Without a configured or
// detected command it falls back to the clipboard package's own lookup.
func copyText(text string, cfg *config.Config) error {
	cmd := detectClipboardCommand(cfg)
	if cmd == "" {
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("no clipboard available: %w", err)
		}
		return nil
	}

	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return fmt.Errorf("invalid clipboard command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := exec.CommandContext(ctx, parts[0], parts[1:]...)
	c.Stdin = strings.NewReader(text)

	return c.Run()
}

// detectClipboardCommand returns the clipboard command to use.
func detectClipboardCommand(cfg *config.Config) string {
	if cfg != nil && cfg.Clipboard.Command != "" {
		return cfg.Clipboard.Command
	}

	// Wayland
	if _, err := exec.LookPath("wl-copy"); err == nil {
		return "wl-copy"
	}

	// X11
	if _, err := exec.LookPath("xclip"); err == nil {
		return "xclip -selection clipboard"
	}
	if _, err := exec.LookPath("xsel"); err == nil {
		return "xsel --clipboard --input"
	}

	return ""
}

// noticeYAML renders the fields an operator would paste elsewhere.
func noticeYAML(n model.Notice) (string, error) {
	out := struct {
		Text     string `yaml:"text"`
		FontSize int    `yaml:"font_size"`
		Color    string `yaml:"color"`
	}{n.Text, n.FontSize, n.Color}

	data, err := yaml.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to encode notice: %w", err)
	}
	return string(data), nil
}
