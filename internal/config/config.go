// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/fsnotice/internal/model"
	"github.com/jmylchreest/fsnotice/internal/stepper"
)

// AppName names the config and data directories.
const AppName = "fsnotice"

// Default configuration values.
const (
	DefaultSizeMin     = 20
	DefaultSizeMax     = 500
	DefaultSizeInitial = model.DefaultFontSize
	DefaultSizeStep    = 1
	DefaultPolicy      = "clamp"
	DefaultPadding     = 20
	DefaultThemeName   = "default"
	DefaultHistoryKeep = 200
)

// DefaultPalette is offered by the palette picker.
var DefaultPalette = []string{
	"#ffffff", "#ffff00", "#ffa500", "#ff0000",
	"#00ff00", "#00ffff", "#ff69b4", "#808080",
}

// Config represents the fsnotice configuration.
type Config struct {
	Size      SizeConfig      `toml:"size"`
	Color     ColorConfig     `toml:"color"`
	Display   DisplayConfig   `toml:"display"`
	Theme     ThemeConfig     `toml:"theme"`
	Sound     SoundConfig     `toml:"sound"`
	History   HistoryConfig   `toml:"history"`
	Clipboard ClipboardConfig `toml:"clipboard"`
}

// SizeConfig bounds the font size stepper.
type SizeConfig struct {
	Min          int    `toml:"min"`
	Max          int    `toml:"max"`
	Initial      int    `toml:"initial"`
	Step         int    `toml:"step"`
	Policy       string `toml:"policy"`        // clamp, reject
	ClampInitial bool   `toml:"clamp_initial"` // Clamp an out-of-range initial instead of failing validation
}

// ColorConfig holds color picker options.
type ColorConfig struct {
	Default      string   `toml:"default"`
	Palette      []string `toml:"palette"`
	NativePicker bool     `toml:"native_picker"` // Offer the GTK color chooser
}

// DisplayConfig holds presentation window options.
type DisplayConfig struct {
	Monitor     int      `toml:"monitor"`    // -1 = last monitor, 0+ = index
	Background  string   `toml:"background"` // Window background color
	Padding     int      `toml:"padding"`
	LayerShell  bool     `toml:"layer_shell"` // Use a layer-shell overlay instead of fullscreen
	CloseButton bool     `toml:"close_button"`
	AlwaysOnTop bool     `toml:"always_on_top"`
	AutoClose   Duration `toml:"auto_close"` // 0 = stay until closed
}

// ThemeConfig selects the CSS theme.
type ThemeConfig struct {
	Name      string `toml:"name"`
	HotReload bool   `toml:"hot_reload"`
}

// SoundConfig controls the attention chime.
type SoundConfig struct {
	Enabled bool    `toml:"enabled"`
	File    string  `toml:"file"`
	Volume  float64 `toml:"volume"` // 0.0 - 1.0
}

// HistoryConfig controls the presented-notice history.
type HistoryConfig struct {
	Keep int `toml:"keep"` // Max to keep (0 = unlimited)
}

// ClipboardConfig holds clipboard settings (TUI only).
type ClipboardConfig struct {
	Command string `toml:"command"` // Auto-detected if empty
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Size: SizeConfig{
			Min:     DefaultSizeMin,
			Max:     DefaultSizeMax,
			Initial: DefaultSizeInitial,
			Step:    DefaultSizeStep,
			Policy:  DefaultPolicy,
		},
		Color: ColorConfig{
			Default:      model.DefaultColor,
			Palette:      append([]string(nil), DefaultPalette...),
			NativePicker: true,
		},
		Display: DisplayConfig{
			Monitor:     -1,
			Background:  model.DefaultBackground,
			Padding:     DefaultPadding,
			CloseButton: true,
			AlwaysOnTop: true,
		},
		Theme: ThemeConfig{
			Name:      DefaultThemeName,
			HotReload: true,
		},
		Sound: SoundConfig{
			Volume: 1.0,
		},
		History: HistoryConfig{
			Keep: DefaultHistoryKeep,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Size.Min > c.Size.Max {
		return fmt.Errorf("size.min (%d) must not exceed size.max (%d)", c.Size.Min, c.Size.Max)
	}
	if c.Size.Min <= 0 {
		return fmt.Errorf("size.min must be greater than 0, got %d", c.Size.Min)
	}
	if c.Size.Step <= 0 {
		return fmt.Errorf("size.step must be greater than 0, got %d", c.Size.Step)
	}
	if _, err := stepper.ParsePolicy(c.Size.Policy); err != nil {
		return fmt.Errorf("size.policy: %w", err)
	}
	if !c.Size.ClampInitial && (c.Size.Initial < c.Size.Min || c.Size.Initial > c.Size.Max) {
		return fmt.Errorf("size.initial (%d) must be within [%d, %d] unless size.clamp_initial is set",
			c.Size.Initial, c.Size.Min, c.Size.Max)
	}

	if _, err := model.NormalizeColor(c.Color.Default); err != nil {
		return fmt.Errorf("color.default: %w", err)
	}
	for i, p := range c.Color.Palette {
		if _, err := model.NormalizeColor(p); err != nil {
			return fmt.Errorf("color.palette[%d]: %w", i, err)
		}
	}
	if _, err := model.NormalizeColor(c.Display.Background); err != nil {
		return fmt.Errorf("display.background: %w", err)
	}

	if c.Display.Padding < 0 {
		return fmt.Errorf("display.padding must not be negative, got %d", c.Display.Padding)
	}
	if c.Display.AutoClose < 0 {
		return fmt.Errorf("display.auto_close must not be negative")
	}
	if c.Sound.Volume < 0 || c.Sound.Volume > 1 {
		return fmt.Errorf("sound.volume must be between 0 and 1, got %g", c.Sound.Volume)
	}
	if c.History.Keep < 0 {
		return fmt.Errorf("history.keep must not be negative, got %d", c.History.Keep)
	}

	return nil
}

// SizeStepper builds a font size stepper from the size settings.
func (c *Config) SizeStepper(opts ...stepper.Option) *stepper.Stepper {
	policy, _ := stepper.ParsePolicy(c.Size.Policy)

	base := []stepper.Option{
		stepper.WithLabel("Size"),
		stepper.WithStep(c.Size.Step),
		stepper.WithPolicy(policy),
	}
	if c.Size.ClampInitial {
		base = append(base, stepper.WithClampInitial())
	}
	return stepper.New(c.Size.Min, c.Size.Max, c.Size.Initial, append(base, opts...)...)
}

// Palette returns the normalized palette, skipping invalid entries.
func (c *Config) Palette() []string {
	out := make([]string, 0, len(c.Color.Palette))
	seen := make(map[string]bool)
	for _, p := range c.Color.Palette {
		hex, err := model.NormalizeColor(p)
		if err != nil || seen[hex] {
			continue
		}
		seen[hex] = true
		out = append(out, hex)
	}
	return out
}

// SoundFile returns the chime path with ~ expanded.
func (c *Config) SoundFile() string {
	return expandPath(c.Sound.File)
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName, "config.toml")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}

// HistoryPath returns the path to the history JSONL file.
func HistoryPath() string {
	return filepath.Join(DataPath(), "history.jsonl")
}

// ThemesDir returns the path to the user's themes directory.
func ThemesDir() string {
	return filepath.Join(filepath.Dir(ConfigPath()), "themes")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	// Write atomically
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	path := DataPath()
	if path == "" {
		return errors.New("unable to determine data directory")
	}
	return os.MkdirAll(path, 0755)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
