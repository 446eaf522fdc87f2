package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLua(t *testing.T) {
	t.Run("accepts a valid script", func(t *testing.T) {
		_, err := NewLua(`function transform(label) return label .. "!" end`)
		assert.NoError(t, err)
	})

	t.Run("rejects a script that does not parse", func(t *testing.T) {
		_, err := NewLua(`function transform(`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid transform script")
	})

	t.Run("rejects a script without a transform function", func(t *testing.T) {
		_, err := NewLua(`x = 1`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must define")
	})

	t.Run("rejects a script where transform is not a function", func(t *testing.T) {
		_, err := NewLua(`transform = "nope"`)
		assert.Error(t, err)
	})
}

func TestLuaApply(t *testing.T) {
	ctx := context.Background()

	t.Run("applies the transform", func(t *testing.T) {
		tr, err := NewLua(`function transform(label) return label .. "!" end`)
		require.NoError(t, err)

		out, err := tr.Apply(ctx, "A")
		require.NoError(t, err)
		assert.Equal(t, "A!", out)
	})

	t.Run("identity transform", func(t *testing.T) {
		tr, err := NewLua(`function transform(label) return label end`)
		require.NoError(t, err)

		out, err := tr.Apply(ctx, "badger")
		require.NoError(t, err)
		assert.Equal(t, "badger", out)
	})

	t.Run("script runtime error", func(t *testing.T) {
		tr, err := NewLua(`function transform(label) error("boom") end`)
		require.NoError(t, err)

		_, err = tr.Apply(ctx, "A")
		assert.Error(t, err)
	})

	t.Run("non-string return value", func(t *testing.T) {
		tr, err := NewLua(`function transform(label) return {} end`)
		require.NoError(t, err)

		_, err = tr.Apply(ctx, "A")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "want string")
	})

	t.Run("calls are independent across labels", func(t *testing.T) {
		tr, err := NewLua(`
			seen = (seen or 0) + 1
			function transform(label) return label .. tostring(seen) end`)
		require.NoError(t, err)

		first, err := tr.Apply(ctx, "A")
		require.NoError(t, err)
		second, err := tr.Apply(ctx, "B")
		require.NoError(t, err)

		// Each Apply runs in a fresh interpreter: no state carries over.
		assert.Equal(t, "A1", first)
		assert.Equal(t, "B1", second)
	})
}
