package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "warren.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("loads a valid config", func(t *testing.T) {
		path := writeConfig(t, `
version: "1.0"
server:
  addr: ":9090"
  board_file: boards/ab.txt
simulation:
  players: 8
  turns: 50
  seed: 42
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, "boards/ab.txt", cfg.Server.BoardFile)
		require.NotNil(t, cfg.Simulation)
		assert.Equal(t, 8, cfg.Simulation.Players)
		assert.Equal(t, int64(42), cfg.Simulation.Seed)
	})

	t.Run("applies defaults", func(t *testing.T) {
		path := writeConfig(t, `
version: "1.0"
server:
  board_file: board.txt
simulation: {}
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, 4, cfg.Simulation.Players)
		assert.Equal(t, 25, cfg.Simulation.Turns)
	})

	t.Run("rejects unsupported version", func(t *testing.T) {
		path := writeConfig(t, `
version: "2.0"
server:
  board_file: board.txt
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported version")
	})

	t.Run("rejects missing board file", func(t *testing.T) {
		path := writeConfig(t, `
version: "1.0"
server:
  addr: ":8080"
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "board_file is required")
	})

	t.Run("rejects negative simulation values", func(t *testing.T) {
		path := writeConfig(t, `
version: "1.0"
server:
  board_file: board.txt
simulation:
  players: -1
`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("fails for a missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		assert.Error(t, err)
	})

	t.Run("fails for malformed YAML", func(t *testing.T) {
		path := writeConfig(t, "version: [unterminated")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse YAML")
	})
}
