package store

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"gorm.io/gorm"

	"github.com/thekillingspree/quick-entry/internal/model"
)

// CheckIn performs the admission check and opens a ledger entry in a single
// transaction. A failure at any step rolls the whole thing back, so the
// occupancy counter and the set of open entries never diverge.
func (s *gormStore) CheckIn(ctx context.Context, userID, roomID, tsMillis int64) (int, error) {
	var occupancy int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return unavailable("read user", err)
		}

		if user.CurrentRoomID != nil {
			if *user.CurrentRoomID == roomID {
				return ErrAlreadyEntered
			}
			return ErrInAnotherRoom
		}

		n, err := tryIncrementOccupancy(tx, roomID)
		if err != nil {
			return err
		}
		occupancy = n

		if err := openEntry(tx, userID, roomID, tsMillis); err != nil {
			return err
		}
		return claimCurrentRoom(tx, userID, roomID)
	})
	if err != nil {
		return 0, err
	}
	return occupancy, nil
}

// CheckOut closes the user's open entry for the room, releases the occupancy
// slot and clears the user's room reference, all in one transaction. The
// returned flag reports whether the room was full before this checkout, so
// the caller can notify waiters about the freed slot.
func (s *gormStore) CheckOut(ctx context.Context, userID, roomID, tsMillis int64) (model.Entry, bool, error) {
	var (
		entry     model.Entry
		freedFull bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return unavailable("read user", err)
		}

		var room model.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return unavailable("read room", err)
		}

		closed, err := closeEntry(tx, userID, roomID, tsMillis)
		if err != nil {
			return err
		}
		entry = closed

		if err := decrementOccupancy(tx, roomID); err != nil {
			return err
		}
		freedFull = room.Current == room.Capacity

		return releaseCurrentRoom(tx, userID, roomID)
	})
	if err != nil {
		return model.Entry{}, false, err
	}
	return entry, freedFull, nil
}

// openEntry appends a new open entry for the user. A user may have at most
// one open entry anywhere, so any existing open entry fails the call.
func openEntry(tx *gorm.DB, userID, roomID, tsMillis int64) error {
	var count int64
	err := tx.Model(&model.Entry{}).
		Where("user_id = ? AND exit_time IS NULL", userID).
		Count(&count).Error
	if err != nil {
		return unavailable("check open entries", err)
	}
	if count > 0 {
		return ErrAlreadyOpen
	}

	entry := model.Entry{UserID: userID, RoomID: roomID, Timestamp: tsMillis}
	if err := tx.Create(&entry).Error; err != nil {
		return unavailable("create entry", err)
	}
	return nil
}

// closeEntry sets the exit timestamp on the user's open entry for the room.
// The exit time never precedes the entry time.
func closeEntry(tx *gorm.DB, userID, roomID, tsMillis int64) (model.Entry, error) {
	var entry model.Entry
	err := tx.Where("user_id = ? AND exit_time IS NULL", userID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Entry{}, ErrNoOpenEntry
		}
		return model.Entry{}, unavailable("find open entry", err)
	}
	if entry.RoomID != roomID {
		return model.Entry{}, ErrWrongRoom
	}

	if tsMillis < entry.Timestamp {
		tsMillis = entry.Timestamp
	}
	res := tx.Model(&model.Entry{}).
		Where("id = ? AND exit_time IS NULL", entry.ID).
		Update("exit_time", tsMillis)
	if res.Error != nil {
		return model.Entry{}, unavailable("close entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return model.Entry{}, ErrStoreConflict
	}
	entry.ExitTime = &tsMillis
	return entry, nil
}

// History returns the user's entries ordered by entry timestamp ascending.
// The sequence is lazy (rows are fetched a page at a time) and restartable:
// every range over it re-runs the scan from the beginning.
func (s *gormStore) History(ctx context.Context, userID int64) iter.Seq2[model.Entry, error] {
	const pageSize = 100
	return func(yield func(model.Entry, error) bool) {
		lastTS := int64(-1)
		lastID := int64(0)
		for {
			var page []model.Entry
			err := s.db.WithContext(ctx).
				Where("user_id = ? AND (timestamp > ? OR (timestamp = ? AND id > ?))",
					userID, lastTS, lastTS, lastID).
				Order("timestamp ASC, id ASC").
				Limit(pageSize).
				Find(&page).Error
			if err != nil {
				yield(model.Entry{}, unavailable("scan history", err))
				return
			}
			for _, e := range page {
				if !yield(e, nil) {
					return
				}
			}
			if len(page) < pageSize {
				return
			}
			last := page[len(page)-1]
			lastTS, lastID = last.Timestamp, last.ID
		}
	}
}

// Occupants returns the room's open entries joined with user display fields.
func (s *gormStore) Occupants(ctx context.Context, roomID int64) ([]Occupant, error) {
	occupants := make([]Occupant, 0)
	err := s.db.WithContext(ctx).
		Model(&model.Entry{}).
		Select("entries.id AS entry_id, users.id AS user_id, users.username, users.full_name, users.tecid AS tec_id, entries.timestamp AS entered_at").
		Joins("JOIN users ON users.id = entries.user_id").
		Where("entries.room_id = ? AND entries.exit_time IS NULL", roomID).
		Order("entries.timestamp ASC").
		Scan(&occupants).Error
	if err != nil {
		return nil, unavailable(fmt.Sprintf("list occupants of room %d", roomID), err)
	}
	return occupants, nil
}
