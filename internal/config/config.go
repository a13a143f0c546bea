// Package config loads canvas-painter-mcp settings.
//
// Settings come from three layers, each overriding the previous one:
// built-in defaults, an optional TOML file and environment variables.
//
// Example file:
//
//	rate_per_hour = 90
//	tiles_dir = "/var/lib/canvas/tiles"
//	store_dir = "/var/lib/canvas/images"
//	available = [1, 5, 7, 11]
//	default_strategy = "DOWN"
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ironsheep/canvas-painter-mcp/internal/canvas"
	"github.com/ironsheep/canvas-painter-mcp/internal/painter"
	"github.com/ironsheep/canvas-painter-mcp/internal/palette"
	"github.com/ironsheep/canvas-painter-mcp/internal/strategy"
)

// Environment variables overriding file settings.
const (
	EnvLogLevel = "CANVAS_PAINTER_LOG_LEVEL"
	EnvTilesDir = "CANVAS_PAINTER_TILES_DIR"
	EnvStoreDir = "CANVAS_PAINTER_STORE_DIR"
	EnvRate     = "CANVAS_PAINTER_RATE"
)

// Config holds all runtime settings.
type Config struct {
	// RatePerHour is the assumed paint throughput used for ETAs.
	RatePerHour int `toml:"rate_per_hour"`

	TileSize int    `toml:"tile_size"`
	TilesDir string `toml:"tiles_dir"`

	// StoreDir is where image snapshots are persisted. Empty disables
	// persistence.
	StoreDir string `toml:"store_dir"`

	// Palette replaces the default canvas colors, index 1 onward.
	Palette []string `toml:"palette"`

	// Available lists the palette indices the painter owns. Empty means all.
	Available []int `toml:"available"`

	DefaultStrategy string `toml:"default_strategy"`
	DefaultOpacity  int    `toml:"default_opacity"`

	LogLevel string `toml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		RatePerHour:     painter.DefaultRate,
		TileSize:        canvas.DefaultTileSize,
		DefaultStrategy: string(strategy.Default),
		DefaultOpacity:  painter.DefaultOpacity,
		LogLevel:        "info",
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer f.Close()
		if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvTilesDir); ok {
		c.TilesDir = v
	}
	if v, ok := lookup(EnvStoreDir); ok {
		c.StoreDir = v
	}
	if v, ok := lookup(EnvRate); ok {
		rate, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvRate, v, err)
		}
		c.RatePerHour = rate
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.RatePerHour <= 0 {
		return fmt.Errorf("rate_per_hour must be positive, got %d", c.RatePerHour)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("tile_size must be positive, got %d", c.TileSize)
	}
	if c.DefaultOpacity < 0 || c.DefaultOpacity > 100 {
		return fmt.Errorf("default_opacity must be 0-100, got %d", c.DefaultOpacity)
	}
	if _, err := strategy.Parse(c.DefaultStrategy); err != nil {
		return fmt.Errorf("default_strategy: %w", err)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info":
	default:
		return fmt.Errorf("log_level must be debug or info, got %q", c.LogLevel)
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// Strategy returns the parsed default strategy.
func (c *Config) Strategy() strategy.Strategy {
	s, err := strategy.Parse(c.DefaultStrategy)
	if err != nil {
		return strategy.Default
	}
	return s
}

// BuildPalette returns the configured palette with availability applied.
func (c *Config) BuildPalette() (*palette.Palette, error) {
	pal := palette.Default()
	if len(c.Palette) > 0 {
		var err error
		if pal, err = palette.FromHex(c.Palette); err != nil {
			return nil, fmt.Errorf("palette: %w", err)
		}
	}
	if err := pal.SetAvailable(c.Available); err != nil {
		return nil, fmt.Errorf("available: %w", err)
	}
	return pal, nil
}
