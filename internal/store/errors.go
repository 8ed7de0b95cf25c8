package store

import (
	"errors"
	"fmt"
)

// Typed failures surfaced by the store. All of them are recoverable and are
// matched by callers with errors.Is; none should take the process down.
var (
	ErrRoomNotFound = errors.New("room not found")
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateRoom means the name or room number already exists within
	// the same admin's rooms.
	ErrDuplicateRoom = errors.New("room name or number already exists")
	ErrDuplicateUser = errors.New("username, email or tec ID already exists")

	// ErrRoomFull means the admission check failed: the room was at capacity
	// at the moment of the atomic increment.
	ErrRoomFull = errors.New("room is at capacity")

	// ErrAlreadyEntered means the user already has an open entry for the
	// target room; ErrInAnotherRoom means the open entry is for a different
	// room and the user must check out first.
	ErrAlreadyEntered = errors.New("user is already inside this room")
	ErrInAnotherRoom  = errors.New("user is inside another room and must check out first")

	// Ledger-level failures.
	ErrAlreadyOpen = errors.New("user already has an open entry")
	ErrNoOpenEntry = errors.New("user has no open entry")
	ErrWrongRoom   = errors.New("user's open entry is for a different room")

	// ErrNotInsideThisRoom is the checkout-facing form of the two ledger
	// failures above: the user has no open entry for the requested room.
	ErrNotInsideThisRoom = errors.New("user is not inside this room")

	// ErrStoreConflict means a conditional update lost a race; the operation
	// may be retried.
	ErrStoreConflict = errors.New("concurrent update conflict")

	// ErrUnavailable wraps unexpected storage failures (I/O, connection).
	ErrUnavailable = errors.New("storage unavailable")
)

// unavailable tags an unexpected storage error so callers can match it with
// errors.Is(err, ErrUnavailable) while keeping the underlying message.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
