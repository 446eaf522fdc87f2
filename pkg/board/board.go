package board

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dyluth/warren/pkg/serial"
)

// phase is a player's position in the two-flip turn cycle.
type phase int

const (
	phaseNeedFirst phase = iota
	phaseNeedSecond
)

// pendingKind tags the deferred outcome of a player's previous turn, applied
// at the start of their next one.
type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingMatch
	pendingMismatch
)

// pendingAction records the slots a previous turn's match (remove both) or
// mismatch (flip one or two back down) must settle.
type pendingAction struct {
	kind      pendingKind
	positions []Position
}

// outcome is the resolution of a one-shot future: a board view rendered for
// the suspended player, or a lifecycle rejection.
type outcome struct {
	view string
	err  error
}

// future is an externally-resolvable one-shot completion handle. It is
// created inside a critical section, queued, and resolved exactly once from a
// later section (the close panics on a double resolution, which would be a
// programming-logic failure, not a game error).
type future struct {
	done chan struct{}
	out  outcome
}

func newFuture() *future {
	return &future{done: make(chan struct{})}
}

func (f *future) resolve(out outcome) {
	f.out = out
	close(f.done)
}

func (f *future) await(ctx context.Context) (string, error) {
	select {
	case <-f.done:
		return f.out.view, f.out.err
	case <-ctx.Done():
		// The caller abandons interest; the board still resolves the
		// future exactly once and nothing leaks.
		return "", ctx.Err()
	}
}

// waiter is a player queued for a currently-controlled slot.
type waiter struct {
	player string
	fut    *future
}

// watcher is a pending single-shot request for the next board change.
type watcher struct {
	player string
	fut    *future
}

// slot is one grid position.
type slot struct {
	present    bool
	label      string
	faceUp     bool
	controller string // "" means uncontrolled
	waiters    []*waiter
}

// playerState tracks one player's turn, created lazily on first interaction
// and kept for the life of the board.
type playerState struct {
	phase     phase
	first     Position // defined iff phase == phaseNeedSecond
	pending   pendingAction
	waitingOn *Position // defensive marker: the slot this player is queued for
}

// Board is the shared game board. All exported methods are safe for
// concurrent use; internally every inspection and mutation runs inside a
// critical section of a single FIFO gate.
type Board struct {
	gate     *serial.Gate
	rows     int
	cols     int
	original []string // initial labels, row-major, for Reset
	slots    []slot   // row-major
	players  map[string]*playerState
	watchers []*watcher
}

// New creates a board of rows x cols slots from row-major labels.
// Dimensions must be positive, len(labels) must equal rows*cols, and every
// label must be non-empty and whitespace-free.
func New(rows, cols int, labels []string) (*Board, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("board dimensions must be positive, got %dx%d", rows, cols)
	}
	if len(labels) != rows*cols {
		return nil, fmt.Errorf("board needs %d cards for %dx%d, got %d", rows*cols, rows, cols, len(labels))
	}

	original := make([]string, len(labels))
	slots := make([]slot, len(labels))
	for i, label := range labels {
		if !IsValidLabel(label) {
			return nil, fmt.Errorf("card %d has label %q: %w", i, label, ErrInvalidLabel)
		}
		original[i] = label
		slots[i] = slot{present: true, label: label}
	}

	return &Board{
		gate:     serial.New(),
		rows:     rows,
		cols:     cols,
		original: original,
		slots:    slots,
		players:  make(map[string]*playerState),
	}, nil
}

// Rows returns the fixed number of rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the fixed number of columns.
func (b *Board) Cols() int { return b.cols }

// Look renders the board from player's perspective. The only mutation is
// lazy player registration.
func (b *Board) Look(ctx context.Context, player string) (string, error) {
	if !IsValidPlayerID(player) {
		return "", fmt.Errorf("player %q: %w", player, ErrInvalidPlayerID)
	}

	var view string
	err := b.gate.Do(ctx, func() {
		b.registerLocked(player)
		view = b.renderLocked(player)
	})
	if err != nil {
		return "", err
	}
	return view, nil
}

// Flip attempts to turn over the card at (row, col) for player, applying the
// full turn state machine: the player's previous turn is settled first, then
// the target is acquired, queued for, or rejected according to the player's
// phase. If the target is controlled by another player the call suspends
// until the waiter is promoted or rejected; ctx abandons the suspension
// without consuming the queue slot's eventual resolution.
//
// Game-rule failures may have changed board state before returning; call
// Look to see the result.
func (b *Board) Flip(ctx context.Context, player string, row, col int) (string, error) {
	if !IsValidPlayerID(player) {
		return "", fmt.Errorf("player %q: %w", player, ErrInvalidPlayerID)
	}
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		return "", fmt.Errorf("(%d,%d) outside %dx%d board: %w", row, col, b.rows, b.cols, ErrOutOfBounds)
	}

	pos := Position{Row: row, Col: col}
	var (
		view    string
		flipErr error
		pending *future
		post    []func()
	)

	err := b.gate.Do(ctx, func() {
		ps := b.registerLocked(player)

		switch ps.phase {
		case phaseNeedFirst:
			pending, flipErr = b.flipFirstLocked(player, ps, pos, &post)
		case phaseNeedSecond:
			flipErr = b.flipSecondLocked(player, ps, pos, &post)
		}

		if flipErr == nil && pending == nil {
			view = b.renderLocked(player)
		}
	})

	// Resolutions and notifications run strictly after the gate is released.
	for _, fn := range post {
		fn()
	}

	if err != nil {
		return "", err
	}
	if flipErr != nil {
		return "", flipErr
	}
	if pending != nil {
		return pending.await(ctx)
	}
	return view, nil
}

// Map rewrites card labels in three phases: snapshot the positions sharing
// each present label under the gate, call transform for each distinct label
// outside any critical section (it may be slow or perform I/O), then in a
// fresh critical section per label overwrite every snapshotted position that
// still holds its original label. Cards removed mid-transform are skipped.
// A transform error or malformed replacement aborts the remaining labels.
func (b *Board) Map(ctx context.Context, player string, transform func(context.Context, string) (string, error)) (string, error) {
	if !IsValidPlayerID(player) {
		return "", fmt.Errorf("player %q: %w", player, ErrInvalidPlayerID)
	}

	// Phase 1: snapshot label groups.
	groups := make(map[string][]Position)
	err := b.gate.Do(ctx, func() {
		b.registerLocked(player)
		for i := range b.slots {
			if b.slots[i].present {
				label := b.slots[i].label
				groups[label] = append(groups[label], b.position(i))
			}
		}
	})
	if err != nil {
		return "", err
	}

	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		// Phase 2: the transform runs without the gate held.
		replacement, terr := transform(ctx, label)
		if terr != nil {
			return "", fmt.Errorf("transform of label %q: %w", label, terr)
		}
		if !IsValidLabel(replacement) {
			return "", fmt.Errorf("replacement %q for label %q: %w", replacement, label, ErrInvalidLabel)
		}

		// Phase 3: re-validate and overwrite in a fresh critical section.
		var post []func()
		err := b.gate.Do(ctx, func() {
			changed := false
			for _, pos := range groups[label] {
				s := b.slotAt(pos)
				if s.present && s.label == label && s.label != replacement {
					s.label = replacement
					changed = true
				}
			}
			if changed {
				b.notifyLocked(&post)
			}
		})
		for _, fn := range post {
			fn()
		}
		if err != nil {
			return "", err
		}
	}

	var view string
	err = b.gate.Do(ctx, func() {
		view = b.renderLocked(player)
	})
	if err != nil {
		return "", err
	}
	return view, nil
}

// Watch registers a single-shot watcher and suspends until the next board
// change, returning a view rendered for player at notification time. Each
// call sees exactly the next change after it registered; missed changes are
// never coalesced or replayed.
func (b *Board) Watch(ctx context.Context, player string) (string, error) {
	if !IsValidPlayerID(player) {
		return "", fmt.Errorf("player %q: %w", player, ErrInvalidPlayerID)
	}

	fut := newFuture()
	err := b.gate.Do(ctx, func() {
		b.registerLocked(player)
		b.watchers = append(b.watchers, &watcher{player: player, fut: fut})
	})
	if err != nil {
		return "", err
	}
	return fut.await(ctx)
}

// Reset restores every slot to its original label, face-down and
// uncontrolled, rejects all queued waiters with ErrGameReset, clears every
// player's turn state and fires a single change notification. Returns the
// fresh view for the requesting player.
func (b *Board) Reset(ctx context.Context, player string) (string, error) {
	if !IsValidPlayerID(player) {
		return "", fmt.Errorf("player %q: %w", player, ErrInvalidPlayerID)
	}

	var (
		view string
		post []func()
	)
	err := b.gate.Do(ctx, func() {
		b.registerLocked(player)

		for i := range b.slots {
			s := &b.slots[i]
			for _, w := range s.waiters {
				fut := w.fut
				post = append(post, func() { fut.resolve(outcome{err: ErrGameReset}) })
			}
			s.waiters = nil
			s.present = true
			s.label = b.original[i]
			s.faceUp = false
			s.controller = ""
		}

		for _, ps := range b.players {
			ps.phase = phaseNeedFirst
			ps.pending = pendingAction{}
			ps.waitingOn = nil
		}

		b.notifyLocked(&post)
		view = b.renderLocked(player)
	})
	for _, fn := range post {
		fn()
	}
	if err != nil {
		return "", err
	}
	return view, nil
}

// registerLocked creates the player's state on first sight.
func (b *Board) registerLocked(player string) *playerState {
	ps, ok := b.players[player]
	if !ok {
		ps = &playerState{phase: phaseNeedFirst}
		b.players[player] = ps
	}
	return ps
}

func (b *Board) index(pos Position) int {
	return pos.Row*b.cols + pos.Col
}

func (b *Board) position(index int) Position {
	return Position{Row: index / b.cols, Col: index % b.cols}
}

func (b *Board) slotAt(pos Position) *slot {
	return &b.slots[b.index(pos)]
}

// flipFirstLocked handles a flip by a player who needs their first card:
// settle the previous turn, then acquire the target, queue for it, or fail.
// Returns a non-nil future when the call must suspend.
func (b *Board) flipFirstLocked(player string, ps *playerState, pos Position, post *[]func()) (*future, error) {
	b.settleLocked(ps, post)

	// At most one outstanding wait per player: a second concurrent attempt
	// on a different card is a caller error, a repeat on the same card hands
	// back the same pending future.
	if ps.waitingOn != nil {
		if *ps.waitingOn != pos {
			return nil, ErrAlreadyWaiting
		}
		for _, w := range b.slotAt(pos).waiters {
			if w.player == player {
				return w.fut, nil
			}
		}
	}

	s := b.slotAt(pos)
	if !s.present {
		return nil, ErrNoCard
	}

	if s.controller != "" && s.controller != player {
		fut := newFuture()
		s.waiters = append(s.waiters, &waiter{player: player, fut: fut})
		waitPos := pos
		ps.waitingOn = &waitPos
		return fut, nil
	}

	b.grantLocked(player, ps, pos, post)
	return nil, nil
}

// grantLocked gives player control of a free slot: face it up (notifying if
// that changed), set the controller, and advance the player to their second
// flip. Shared by the direct acquire path and waiter promotion.
func (b *Board) grantLocked(player string, ps *playerState, pos Position, post *[]func()) {
	s := b.slotAt(pos)
	if !s.faceUp {
		s.faceUp = true
		b.notifyLocked(post)
	}
	s.controller = player
	ps.phase = phaseNeedSecond
	ps.first = pos
	ps.pending = pendingAction{}
	ps.waitingOn = nil
}

// flipSecondLocked handles a flip by a player who controls a first card.
// Any failure rewinds the turn: control of the first card is released, a
// single-position mismatch is recorded so it flips back down next turn, and
// the head waiter on it is promoted.
func (b *Board) flipSecondLocked(player string, ps *playerState, pos Position, post *[]func()) error {
	first := ps.first
	fs := b.slotAt(first)

	// Defensive: the representation invariant says we control first.
	if !fs.present || fs.controller != player {
		ps.phase = phaseNeedFirst
		ps.pending = pendingAction{}
		return ErrFirstCardLost
	}

	if pos == first {
		b.rewindLocked(ps, post)
		return ErrSameCard
	}

	s := b.slotAt(pos)
	if !s.present {
		b.rewindLocked(ps, post)
		return ErrNoCard
	}
	if s.controller != "" && s.controller != player {
		b.rewindLocked(ps, post)
		return ErrControlled
	}

	if !s.faceUp {
		s.faceUp = true
		b.notifyLocked(post)
	}
	s.controller = player

	if s.label == fs.label {
		// Match: both cards stay controlled and face-up until the start of
		// this player's next turn removes them.
		ps.pending = pendingAction{kind: pendingMatch, positions: []Position{first, pos}}
		ps.phase = phaseNeedFirst
		b.notifyLocked(post)
		return nil
	}

	// Mismatch: release both cards but leave them face-up for everyone to
	// see until this player's next turn flips them back down.
	fs.controller = ""
	s.controller = ""
	ps.pending = pendingAction{kind: pendingMismatch, positions: []Position{first, pos}}
	ps.phase = phaseNeedFirst
	b.notifyLocked(post)
	b.promoteLocked(first, post)
	b.promoteLocked(pos, post)
	return nil
}

// rewindLocked aborts an in-progress turn after a failed second flip:
// release the first card, record a single-position mismatch so it flips back
// down next turn, notify, and promote the head waiter on it.
func (b *Board) rewindLocked(ps *playerState, post *[]func()) {
	first := ps.first
	b.slotAt(first).controller = ""
	ps.phase = phaseNeedFirst
	ps.pending = pendingAction{kind: pendingMismatch, positions: []Position{first}}
	b.notifyLocked(post)
	b.promoteLocked(first, post)
}

// settleLocked applies the deferred outcome of the player's previous turn.
// A pending match removes both cards (rejecting their waiters); a pending
// mismatch flips each still-present, uncontrolled, face-up card back down and
// promotes the head of its waiter queue.
func (b *Board) settleLocked(ps *playerState, post *[]func()) {
	switch ps.pending.kind {
	case pendingMatch:
		for _, pos := range ps.pending.positions {
			s := b.slotAt(pos)
			if !s.present {
				continue
			}
			s.present = false
			s.label = ""
			s.faceUp = false
			s.controller = ""
			b.rejectWaitersLocked(s, ErrCardRemoved, post)
			b.notifyLocked(post)
		}

	case pendingMismatch:
		for _, pos := range ps.pending.positions {
			s := b.slotAt(pos)
			if s.present && s.faceUp && s.controller == "" {
				s.faceUp = false
				b.notifyLocked(post)
				b.promoteLocked(pos, post)
			}
		}
	}
	ps.pending = pendingAction{}
}

// promoteLocked pops waiters off a freed slot's queue until one can be
// granted control: vanished players, removed cards and superseded waiters
// are rejected and skipped. At most one waiter is granted per free-up.
func (b *Board) promoteLocked(pos Position, post *[]func()) {
	s := b.slotAt(pos)
	if s.controller != "" {
		return
	}

	for len(s.waiters) > 0 {
		w := s.waiters[0]
		s.waiters = s.waiters[1:]
		fut := w.fut

		ps, ok := b.players[w.player]
		if !ok {
			*post = append(*post, func() { fut.resolve(outcome{err: ErrPlayerLeft}) })
			continue
		}
		ps.waitingOn = nil

		if !s.present {
			*post = append(*post, func() { fut.resolve(outcome{err: ErrCardRemoved}) })
			continue
		}
		if ps.phase != phaseNeedFirst {
			// The waiter's own turn moved on while they were queued.
			*post = append(*post, func() { fut.resolve(outcome{err: ErrSuperseded}) })
			continue
		}

		b.grantLocked(w.player, ps, pos, post)
		view := b.renderLocked(w.player)
		*post = append(*post, func() { fut.resolve(outcome{view: view}) })
		return
	}
}

// rejectWaitersLocked resolves every queued waiter on s with err and clears
// the queue and the players' waiting markers.
func (b *Board) rejectWaitersLocked(s *slot, err error, post *[]func()) {
	for _, w := range s.waiters {
		if ps, ok := b.players[w.player]; ok {
			ps.waitingOn = nil
		}
		fut := w.fut
		rejection := err
		*post = append(*post, func() { fut.resolve(outcome{err: rejection}) })
	}
	s.waiters = nil
}

// notifyLocked swaps out the whole watcher list and schedules each watcher's
// future to resolve, after the gate releases, with a view rendered here and
// now for that watcher's own player.
func (b *Board) notifyLocked(post *[]func()) {
	if len(b.watchers) == 0 {
		return
	}
	watchers := b.watchers
	b.watchers = nil
	for _, w := range watchers {
		fut := w.fut
		view := b.renderLocked(w.player)
		*post = append(*post, func() { fut.resolve(outcome{view: view}) })
	}
}

// renderLocked produces the board-state text for viewer: a "<rows>x<cols>"
// header then one line per slot in row-major order.
func (b *Board) renderLocked(viewer string) string {
	lines := make([]string, 0, len(b.slots)+1)
	lines = append(lines, fmt.Sprintf("%dx%d", b.rows, b.cols))
	for i := range b.slots {
		s := &b.slots[i]
		switch {
		case !s.present:
			lines = append(lines, "none")
		case !s.faceUp:
			lines = append(lines, "down")
		case s.controller == viewer:
			lines = append(lines, "my "+s.label)
		default:
			lines = append(lines, "up "+s.label)
		}
	}
	return strings.Join(lines, "\n")
}
