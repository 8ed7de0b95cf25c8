package occupancy

import (
	"fmt"
	"sync"
)

// lockTable hands out one mutex per key so state transitions for the same
// room or user serialize while unrelated ones proceed in parallel.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

func (t *lockTable) get(key string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.locks[key]
	if !ok {
		l = &sync.Mutex{}
		t.locks[key] = l
	}
	return l
}

// lockTransition acquires the room lock and then the user lock. The order is
// fixed (room before user, everywhere) so two transitions can never deadlock
// against each other. The returned function releases both.
func (t *lockTable) lockTransition(roomID, userID int64) func() {
	room := t.get(fmt.Sprintf("room/%d", roomID))
	user := t.get(fmt.Sprintf("user/%d", userID))
	room.Lock()
	user.Lock()
	return func() {
		user.Unlock()
		room.Unlock()
	}
}
