// Package config loads and validates warren.yml, the optional configuration
// file for the warren server and simulation harness. Command-line flags
// override anything set here.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WarrenConfig represents the top-level warren.yml configuration.
type WarrenConfig struct {
	Version    string            `yaml:"version"`
	Server     ServerConfig      `yaml:"server"`
	Simulation *SimulationConfig `yaml:"simulation,omitempty"`
}

// ServerConfig specifies how `warren serve` exposes the board.
type ServerConfig struct {
	Addr      string `yaml:"addr"`       // listen address, default ":8080"
	BoardFile string `yaml:"board_file"` // path to the board layout file
}

// SimulationConfig specifies defaults for `warren simulate`.
type SimulationConfig struct {
	Players int   `yaml:"players,omitempty"` // concurrent players, default 4
	Turns   int   `yaml:"turns,omitempty"`   // turns per player, default 25
	Seed    int64 `yaml:"seed,omitempty"`    // 0 means derive from the clock
}

// Validate performs strict validation and applies defaults.
func (c *WarrenConfig) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Server.BoardFile == "" {
		return fmt.Errorf("server.board_file is required")
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}

	if c.Simulation != nil {
		if c.Simulation.Players < 0 {
			return fmt.Errorf("simulation.players must be >= 0, got %d", c.Simulation.Players)
		}
		if c.Simulation.Turns < 0 {
			return fmt.Errorf("simulation.turns must be >= 0, got %d", c.Simulation.Turns)
		}
		if c.Simulation.Players == 0 {
			c.Simulation.Players = 4
		}
		if c.Simulation.Turns == 0 {
			c.Simulation.Turns = 25
		}
	}

	return nil
}

// Load reads and validates warren.yml from the specified path.
func Load(path string) (*WarrenConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config WarrenConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
