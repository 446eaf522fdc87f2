// Package board implements the shared, mutable game board for a multiplayer
// memory-matching game. The board is a fixed grid of card slots accessed
// concurrently by many independent players; all state - slots, per-player
// turn state, per-slot waiter queues and the watcher list - is owned by a
// single Board value and mutated only inside critical sections of one
// serial.Gate.
//
// Operations that cannot complete immediately (flipping a card somebody else
// controls, watching for the next change) register a one-shot future inside a
// critical section and suspend on it after the gate is released; the future
// is resolved from a later critical section when the awaited condition
// becomes true, with the actual channel send performed after that section's
// gate release so no continuation code ever runs while the gate is held.
//
// Every operation returns the board rendered as text from the calling
// player's perspective: a "<rows>x<cols>" header followed by one line per
// slot in row-major order ("none", "down", "up <label>" or "my <label>").
package board
