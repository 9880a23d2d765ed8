// Package config loads the YAML settings shared by the chessmoves binaries.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hailam/chessmoves/internal/board"
	"github.com/hailam/chessmoves/internal/movegen"
)

// Config is the on-disk configuration. Keys missing from the file keep their
// defaults.
type Config struct {
	// Baselines overrides integrity baselines by piece name ("knight": 8).
	Baselines  map[string]int `yaml:"baselines,omitempty"`
	Store      Store          `yaml:"store"`
	Debug      Debug          `yaml:"debug"`
	CrossCheck bool           `yaml:"crosscheck"`
}

// Store configures the audit report database.
type Store struct {
	// Dir is the Badger directory; empty means the platform data directory.
	Dir string `yaml:"dir,omitempty"`
}

// Debug holds the logging switches.
type Debug struct {
	Integrity      bool `yaml:"integrity"`
	MoveValidation bool `yaml:"move_validation"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{}
}

// Load reads filename on top of the defaults and validates the result.
func Load(filename string) (*Config, error) {
	cfg := Default()

	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", filename, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("'%s': %w", filename, err)
	}
	if _, err := cfg.MovegenBaselines(); err != nil {
		return nil, fmt.Errorf("'%s': %w", filename, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func (c *Config) Save(filename string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("'%s': %w", filename, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("'%s': %w", filename, err)
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write file '%s': %w", filename, err)
	}
	return nil
}

// MovegenBaselines merges the overrides into movegen.DefaultBaselines.
// Piece names are case-insensitive; an unknown name or a negative count is an error.
func (c *Config) MovegenBaselines() (movegen.Baselines, error) {
	b := movegen.DefaultBaselines
	for name, n := range c.Baselines {
		pt, ok := board.ParsePieceType(strings.TrimSpace(name))
		if !ok {
			return b, fmt.Errorf("baselines: unknown piece type %q", name)
		}
		if n < 0 {
			return b, fmt.Errorf("baselines: %s: negative move count %d", pt, n)
		}
		b[pt] = n
	}
	return b, nil
}

// Apply sets the package debug switches.
func (c *Config) Apply() {
	board.DebugMoveValidation = c.Debug.MoveValidation
	movegen.DebugIntegrity = c.Debug.Integrity
}

// Generator builds a move generator with the configured baselines.
func (c *Config) Generator() (*movegen.Generator, error) {
	b, err := c.MovegenBaselines()
	if err != nil {
		return nil, err
	}
	return movegen.New(board.Attacks{}, b), nil
}
