package simulate

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/warren/pkg/board"
)

func TestRunValidation(t *testing.T) {
	b, err := board.New(2, 2, []string{"A", "A", "B", "B"})
	require.NoError(t, err)

	_, err = Run(context.Background(), b, Options{Players: 0, Turns: 5})
	assert.Error(t, err)

	_, err = Run(context.Background(), b, Options{Players: 2, Turns: 0})
	assert.Error(t, err)
}

func TestRunAccountsForEveryFlip(t *testing.T) {
	b, err := board.New(2, 2, []string{"A", "A", "B", "B"})
	require.NoError(t, err)

	opts := Options{
		Players:     3,
		Turns:       20,
		Seed:        1,
		FlipTimeout: 200 * time.Millisecond,
	}
	stats, err := Run(context.Background(), b, opts)
	require.NoError(t, err)

	assert.Equal(t, int64(opts.Players*opts.Turns), stats.Attempts)
	assert.Equal(t, stats.Attempts, stats.Successes+stats.Rejections+stats.Timeouts)
	assert.Greater(t, stats.Successes, int64(0))
}

func TestRunLeavesBoardRenderable(t *testing.T) {
	b, err := board.New(3, 3, []string{"A", "A", "B", "B", "C", "C", "D", "D", "E"})
	require.NoError(t, err)

	_, err = Run(context.Background(), b, Options{Players: 4, Turns: 15, Seed: 7})
	require.NoError(t, err)

	view, err := b.Look(context.Background(), "observer")
	require.NoError(t, err)

	lines := strings.Split(view, "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "3x3", lines[0])
	for _, line := range lines[1:] {
		ok := line == "none" || line == "down" || strings.HasPrefix(line, "up ")
		assert.True(t, ok, "unexpected state line %q for an idle observer", line)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	b, err := board.New(2, 2, []string{"A", "A", "B", "B"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := Run(ctx, b, Options{Players: 2, Turns: 1000, Seed: 3})
	require.NoError(t, err)
	assert.Less(t, stats.Attempts, int64(2000))
}
