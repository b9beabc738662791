package server

import (
	"errors"
	"fmt"
)

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrAccessDenied       = errors.New("access denied to this game")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrCodeExhausted means the bounded generate-check-retry loop could not
	// find an unused code. Transient; the caller may retry the operation.
	ErrCodeExhausted = errors.New("failed to generate unique code")
)

// ValidationError rejects malformed or out-of-range input. Nothing has been
// persisted when it is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidStateError rejects an operation that is not legal in the game's
// current lifecycle status. GameIDs is populated by bulk deletion with the
// ids blocking the batch.
type InvalidStateError struct {
	Reason  string
	GameIDs []uint
}

func (e *InvalidStateError) Error() string { return e.Reason }

// PreconditionError rejects an operation whose state is legal but whose
// requirements are unmet, such as starting a game with one player.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return e.Reason }

// TurnViolationError reports a reveal attempted out of turn. It carries the
// expected player and turn index so clients can resynchronize. This is a
// diagnostic, not a security boundary.
type TurnViolationError struct {
	ExpectedPlayerID uint
	CurrentIndex     int
}

func (e *TurnViolationError) Error() string {
	return fmt.Sprintf("not your turn: waiting on player %d", e.ExpectedPlayerID)
}

// AlreadyRevealedError reports an attempt to reveal a cell that already has
// a reveal on record.
type AlreadyRevealedError struct {
	CardID int
}

func (e *AlreadyRevealedError) Error() string {
	return fmt.Sprintf("card %d has already been revealed", e.CardID)
}
