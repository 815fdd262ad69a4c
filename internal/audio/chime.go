package audio

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/jmylchreest/fsnotice/internal/config"
)

// Chime plays the configured sound when a notice is presented.
type Chime struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	player  *Player
	watcher *Watcher
	enabled bool
	path    string
}

// NewChime creates a chime from cfg.
func NewChime(cfg *config.Config, logger *slog.Logger) *Chime {
	if logger == nil {
		logger = slog.Default()
	}
	player := NewPlayer(logger)
	c := &Chime{
		logger:  logger,
		player:  player,
		watcher: NewWatcher(player, logger),
	}
	c.apply(cfg)
	return c
}

func (c *Chime) apply(cfg *config.Config) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	path := cfg.SoundFile()
	enabled := cfg.Sound.Enabled && path != ""
	if enabled {
		if _, err := os.Stat(path); err != nil {
			c.logger.Warn("sound file not found, chime disabled", "path", path)
			enabled = false
		}
	}

	c.mu.Lock()
	c.enabled = enabled
	c.path = path
	c.mu.Unlock()

	c.player.SetVolume(cfg.Sound.Volume)
	if enabled {
		c.watcher.Watch(path)
	}
}

// Enabled reports whether Play will make a sound.
func (c *Chime) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// Start preloads the sound and watches it for changes.
func (c *Chime) Start(ctx context.Context) error {
	if err := c.watcher.Start(ctx); err != nil {
		return err
	}
	if c.Enabled() {
		c.mu.RLock()
		path := c.path
		c.mu.RUnlock()
		if err := c.player.Preload(path); err != nil {
			c.logger.Warn("failed to preload chime", "path", path, "error", err)
		}
	}
	return nil
}

// Play plays the chime if enabled.
func (c *Chime) Play() error {
	c.mu.RLock()
	enabled, path := c.enabled, c.path
	c.mu.RUnlock()

	if !enabled {
		return nil
	}
	return c.player.Play(path)
}

// UpdateConfig applies a reloaded configuration.
func (c *Chime) UpdateConfig(cfg *config.Config) {
	c.mu.RLock()
	old := c.path
	c.mu.RUnlock()

	c.apply(cfg)
	c.player.Invalidate(old)
	c.logger.Debug("chime config updated", "enabled", c.Enabled())
}

// Stop stops the watcher and releases the speaker.
func (c *Chime) Stop() {
	c.watcher.Stop()
	c.player.Close()
}
