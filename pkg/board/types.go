package board

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// Position identifies one grid slot by zero-based row and column.
type Position struct {
	Row int
	Col int
}

// Validation failures: the request was malformed and no state changed.
var (
	// ErrInvalidPlayerID indicates a player id that is not a non-empty string
	// of letters, digits and underscores.
	ErrInvalidPlayerID = errors.New("invalid player id")

	// ErrOutOfBounds indicates coordinates outside the board grid.
	ErrOutOfBounds = errors.New("coordinates out of bounds")

	// ErrInvalidLabel indicates a card label that is empty or contains
	// whitespace (board files and map replacements share this rule).
	ErrInvalidLabel = errors.New("invalid card label")
)

// Game-rule failures: the attempted move did not complete, but state may have
// changed (control release, mismatch recording, waiter promotion) before the
// error was returned. Callers should re-look at the board rather than assume
// nothing happened.
var (
	// ErrNoCard indicates the target slot is permanently empty.
	ErrNoCard = errors.New("no card at that location")

	// ErrControlled indicates the target card is held face-up by another
	// player as part of their in-progress turn.
	ErrControlled = errors.New("card already controlled")

	// ErrSameCard indicates a second flip targeting the player's own first
	// card.
	ErrSameCard = errors.New("cannot flip the same card twice")

	// ErrFirstCardLost indicates the player's recorded first card is no
	// longer under their control (defensive consistency check).
	ErrFirstCardLost = errors.New("first card no longer controlled")

	// ErrAlreadyWaiting indicates the player attempted to acquire a card
	// while still queued for a different one. At most one outstanding wait
	// per player is supported; a concurrent second attempt is a caller error.
	ErrAlreadyWaiting = errors.New("player is already waiting for another card")
)

// Lifecycle rejections: delivered asynchronously to a suspended waiter or
// watcher whose wait can no longer be satisfied as originally intended.
// Re-issue the request if you still want to wait.
var (
	// ErrCardRemoved indicates the awaited card was matched and removed
	// while the player was queued for it.
	ErrCardRemoved = errors.New("card removed")

	// ErrGameReset indicates the board was reset while the player was
	// queued.
	ErrGameReset = errors.New("game reset")

	// ErrSuperseded indicates the waiter's own turn state moved on before
	// promotion, so granting the card would violate turn rules.
	ErrSuperseded = errors.New("player request superseded")

	// ErrPlayerLeft indicates the queued player no longer exists on the
	// board.
	ErrPlayerLeft = errors.New("player left the game")
)

var playerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// IsValidPlayerID reports whether id is a non-empty string of letters,
// digits and underscores.
func IsValidPlayerID(id string) bool {
	return playerIDPattern.MatchString(id)
}

// IsValidLabel reports whether label is a non-empty string containing no
// whitespace characters.
func IsValidLabel(label string) bool {
	if label == "" {
		return false
	}
	return !strings.ContainsFunc(label, unicode.IsSpace)
}

// IsRuleFailure returns true if the error is a game-rule failure: the move
// was rejected but may have changed board state first.
func IsRuleFailure(err error) bool {
	return errors.Is(err, ErrNoCard) ||
		errors.Is(err, ErrControlled) ||
		errors.Is(err, ErrSameCard) ||
		errors.Is(err, ErrFirstCardLost) ||
		errors.Is(err, ErrAlreadyWaiting)
}

// IsRejection returns true if the error is a lifecycle rejection delivered to
// a suspended waiter or watcher.
func IsRejection(err error) bool {
	return errors.Is(err, ErrCardRemoved) ||
		errors.Is(err, ErrGameReset) ||
		errors.Is(err, ErrSuperseded) ||
		errors.Is(err, ErrPlayerLeft)
}

// IsValidationFailure returns true if the error is an input validation
// failure, which is guaranteed to have caused no state change.
func IsValidationFailure(err error) bool {
	return errors.Is(err, ErrInvalidPlayerID) ||
		errors.Is(err, ErrOutOfBounds) ||
		errors.Is(err, ErrInvalidLabel)
}
