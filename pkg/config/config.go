// Package config loads viewer configuration from TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Nelarius/Morphoviewer/pkg/triangulate"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the viewer.
type Config struct {
	Kernel   Kernel   `toml:"kernel"`
	Pipeline Pipeline `toml:"pipeline"`
	Log      Log      `toml:"log"`
}

// Kernel holds geometry kernel parameters.
type Kernel struct {
	Cells int `toml:"cells"` // marching-cubes cells along the longest bounding box side
}

// Pipeline holds per-part processing parameters.
type Pipeline struct {
	Center     bool   `toml:"center"`     // translate each part so its centroid is at the origin
	Projection string `toml:"projection"` // "xy" or "plane", used when a cloud is triangulated
	Strict     bool   `toml:"strict"`     // fail a part on any degenerate element
}

// Log holds logging parameters.
type Log struct {
	Level string `toml:"level"` // debug, info, warn or error
}

// MinCells is the smallest accepted marching-cubes resolution.
const MinCells = 8

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Kernel: Kernel{
			Cells: 64,
		},
		Pipeline: Pipeline{
			Center:     true,
			Projection: "xy",
			Strict:     false,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads and parses the TOML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
// Keys the Config does not know are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var missing *toml.StrictMissingError
		if errors.As(err, &missing) {
			return Config{}, fmt.Errorf("config: unknown keys:\n%s", missing.String())
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("config: line %d column %d: %w", row, col, err)
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Kernel.Cells < MinCells {
		return fmt.Errorf("config: kernel.cells must be at least %d, got %d", MinCells, c.Kernel.Cells)
	}
	if _, err := triangulate.ParseProjection(c.Pipeline.Projection); err != nil {
		return fmt.Errorf("config: pipeline.projection: %w", err)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel converts the configured level name.
func (l Log) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log.level: %w", err)
	}
	return lvl, nil
}
