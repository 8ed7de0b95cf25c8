package occupancy

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/thekillingspree/quick-entry/internal/model"
	"github.com/thekillingspree/quick-entry/internal/store"
)

// maxConflictRetries bounds how often a conditional-update conflict is
// retried before it is surfaced to the caller.
const maxConflictRetries = 3

// Notifier receives the ID of a room that just regained a free slot.
type Notifier interface {
	Dispatch(roomID int64)
}

// Service is the occupancy controller: it drives the per-user state machine
// (outside, or inside exactly one room) over the transactional store, and is
// the only component that mutates occupancy counters and room references.
type Service struct {
	store    store.Store
	locks    *lockTable
	notifier Notifier
	now      func() time.Time
}

// NewService creates the controller. notifier may be nil when push
// notifications are not configured.
func NewService(s store.Store, notifier Notifier) *Service {
	return &Service{
		store:    s,
		locks:    newLockTable(),
		notifier: notifier,
		now:      time.Now,
	}
}

// CheckInResult reports a successful admission.
type CheckInResult struct {
	RoomID    int64 `json:"roomId"`
	Occupancy int   `json:"occupancy"`
	EnteredAt int64 `json:"enteredAt"`
}

// CheckOutResult reports a closed visit.
type CheckOutResult struct {
	RoomID     int64 `json:"roomId"`
	EnteredAt  int64 `json:"enteredAt"`
	ExitedAt   int64 `json:"exitedAt"`
	DurationMs int64 `json:"durationMs"`
}

// CheckIn moves the user from outside to inside the room. It fails with
// store.ErrAlreadyEntered for a duplicate scan against the same room,
// store.ErrInAnotherRoom when the user has an open entry elsewhere, and
// store.ErrRoomFull when the admission check loses to capacity.
func (s *Service) CheckIn(ctx context.Context, userID, roomID int64) (CheckInResult, error) {
	unlock := s.locks.lockTransition(roomID, userID)
	defer unlock()

	ts := s.now().UnixMilli()
	occupancy, err := retryOnConflict(func() (int, error) {
		return s.store.CheckIn(ctx, userID, roomID, ts)
	})
	if err != nil {
		return CheckInResult{}, err
	}
	return CheckInResult{RoomID: roomID, Occupancy: occupancy, EnteredAt: ts}, nil
}

// CheckOut moves the user back outside, closing the open entry for the room.
// A missing or mismatched open entry fails with store.ErrNotInsideThisRoom.
func (s *Service) CheckOut(ctx context.Context, userID, roomID int64) (CheckOutResult, error) {
	unlock := s.locks.lockTransition(roomID, userID)
	defer unlock()

	ts := s.now().UnixMilli()
	type closed struct {
		entry     model.Entry
		freedFull bool
	}
	res, err := retryOnConflict(func() (closed, error) {
		entry, freedFull, err := s.store.CheckOut(ctx, userID, roomID, ts)
		return closed{entry: entry, freedFull: freedFull}, err
	})
	if err != nil {
		if errors.Is(err, store.ErrNoOpenEntry) || errors.Is(err, store.ErrWrongRoom) {
			return CheckOutResult{}, store.ErrNotInsideThisRoom
		}
		return CheckOutResult{}, err
	}

	if res.freedFull && s.notifier != nil {
		s.notifier.Dispatch(roomID)
	}

	exitedAt := *res.entry.ExitTime
	return CheckOutResult{
		RoomID:     roomID,
		EnteredAt:  res.entry.Timestamp,
		ExitedAt:   exitedAt,
		DurationMs: exitedAt - res.entry.Timestamp,
	}, nil
}

// retryOnConflict re-runs the operation on store.ErrStoreConflict, up to
// maxConflictRetries attempts.
func retryOnConflict[T any](op func() (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		result, err = op()
		if !errors.Is(err, store.ErrStoreConflict) {
			return result, err
		}
		log.Printf("occupancy: conditional update conflict, retrying (attempt %d)", attempt+1)
	}
	return result, err
}
