package printer

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Run("returns error with title", func(t *testing.T) {
		err := Error("Board unreachable", "Could not connect to the server", []string{})
		require.Error(t, err)
		require.Equal(t, "Board unreachable", err.Error())
	})

	t.Run("returns error with title when including suggestions", func(t *testing.T) {
		err := Error("Board unreachable", "Could not connect to the server", []string{
			"Check that `warren serve` is running",
			"Pass the right address with --addr",
		})
		require.Error(t, err)
		require.Equal(t, "Board unreachable", err.Error())
	})
}

func TestBoard(t *testing.T) {
	t.Run("passes views through unchanged without colors", func(t *testing.T) {
		restore := color.NoColor
		color.NoColor = true
		defer func() { color.NoColor = restore }()

		view := "2x2\nmy A\nup A\ndown\nnone"
		assert.Equal(t, view, Board(view))
	})

	t.Run("styles owned and face-up lines when colors are on", func(t *testing.T) {
		restore := color.NoColor
		color.NoColor = false
		defer func() { color.NoColor = restore }()

		out := Board("2x2\nmy A\nup A\ndown\nnone")
		assert.Contains(t, out, "\x1b[")
		assert.Contains(t, out, "down")
	})
}
