// Package simulate drives a board with concurrent synthetic players. It is
// the load harness behind `warren simulate`: each player makes random flips
// for a fixed number of turns and the run reports how those flips fared.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dyluth/warren/pkg/board"
)

// Options configures a simulation run.
type Options struct {
	Players     int
	Turns       int
	Seed        int64         // 0 derives a seed from the clock
	FlipTimeout time.Duration // per-flip wait budget, default 500ms
}

// Stats summarises a completed run.
type Stats struct {
	Attempts   int64 // flips issued
	Successes  int64 // flips that returned a view
	Rejections int64 // game-rule or lifecycle rejections
	Timeouts   int64 // flips abandoned after FlipTimeout
	Elapsed    time.Duration
}

type tally struct {
	attempts   atomic.Int64
	successes  atomic.Int64
	rejections atomic.Int64
	timeouts   atomic.Int64
}

// Run executes the simulation and blocks until every player has finished or
// ctx is cancelled. Validation errors are never expected from generated
// moves, so they abort the run.
func Run(ctx context.Context, b *board.Board, opts Options) (Stats, error) {
	if opts.Players <= 0 {
		return Stats{}, fmt.Errorf("players must be > 0, got %d", opts.Players)
	}
	if opts.Turns <= 0 {
		return Stats{}, fmt.Errorf("turns must be > 0, got %d", opts.Turns)
	}
	if opts.FlipTimeout <= 0 {
		opts.FlipTimeout = 500 * time.Millisecond
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	log.Printf("[Simulate] Starting %d players x %d turns on a %dx%d board (seed %d)",
		opts.Players, opts.Turns, b.Rows(), b.Cols(), seed)

	var (
		t     tally
		wg    sync.WaitGroup
		start = time.Now()

		errMu    sync.Mutex
		fatalErr error
	)

	for i := 0; i < opts.Players; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			player := fmt.Sprintf("player_%d", i)
			rng := rand.New(rand.NewSource(seed + int64(i)))
			if err := runPlayer(ctx, b, player, rng, opts, &t); err != nil {
				errMu.Lock()
				if fatalErr == nil {
					fatalErr = err
				}
				errMu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	stats := Stats{
		Attempts:   t.attempts.Load(),
		Successes:  t.successes.Load(),
		Rejections: t.rejections.Load(),
		Timeouts:   t.timeouts.Load(),
		Elapsed:    time.Since(start),
	}

	if fatalErr != nil {
		return stats, fatalErr
	}

	log.Printf("[Simulate] Done in %s: %d flips, %d ok, %d rejected, %d timed out",
		stats.Elapsed.Round(time.Millisecond),
		stats.Attempts, stats.Successes, stats.Rejections, stats.Timeouts)
	return stats, nil
}

func runPlayer(ctx context.Context, b *board.Board, player string, rng *rand.Rand, opts Options, t *tally) error {
	for turn := 0; turn < opts.Turns; turn++ {
		if ctx.Err() != nil {
			return nil
		}

		row := rng.Intn(b.Rows())
		col := rng.Intn(b.Cols())

		flipCtx, cancel := context.WithTimeout(ctx, opts.FlipTimeout)
		_, err := b.Flip(flipCtx, player, row, col)
		cancel()

		t.attempts.Add(1)
		switch {
		case err == nil:
			t.successes.Add(1)
		case board.IsRuleFailure(err) || board.IsRejection(err):
			t.rejections.Add(1)
		case errors.Is(err, context.DeadlineExceeded):
			// The flip outlived its budget; the board resolves it later and
			// the next turn picks up from whatever state that leaves.
			t.timeouts.Add(1)
		case errors.Is(err, context.Canceled):
			return nil
		default:
			return fmt.Errorf("player %s: unexpected flip failure: %w", player, err)
		}
	}
	return nil
}
