package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/thekillingspree/quick-entry/internal/model"
)

// CreateRoom persists a new room with occupancy zero. Name and room number
// must be unique among the rooms owned by the same admin.
func (s *gormStore) CreateRoom(ctx context.Context, room *model.Room) error {
	room.Current = 0
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.Room{}).
			Where("admin_id = ? AND (name = ? OR room_number = ?)", room.AdminID, room.Name, room.RoomNumber).
			Count(&count).Error
		if err != nil {
			return unavailable("check duplicate room", err)
		}
		if count > 0 {
			return ErrDuplicateRoom
		}
		if err := tx.Create(room).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateRoom
			}
			return unavailable("create room", err)
		}
		return nil
	})
}

// GetRoom returns the room or ErrRoomNotFound.
func (s *gormStore) GetRoom(ctx context.Context, id int64) (model.Room, error) {
	var room model.Room
	if err := s.db.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Room{}, ErrRoomNotFound
		}
		return model.Room{}, unavailable("get room", err)
	}
	return room, nil
}

// ListRooms returns all rooms ordered by room number.
func (s *gormStore) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := s.db.WithContext(ctx).Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, unavailable("list rooms", err)
	}
	return rooms, nil
}

// tryIncrementOccupancy is the admission check: a single conditional UPDATE
// that increments the counter only while it is below capacity, so two racers
// against the last slot can never both succeed. Returns the new occupancy.
func tryIncrementOccupancy(tx *gorm.DB, roomID int64) (int, error) {
	res := tx.Model(&model.Room{}).
		Where("id = ? AND current < capacity", roomID).
		Update("current", gorm.Expr("current + 1"))
	if res.Error != nil {
		return 0, unavailable("increment occupancy", res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the room is full or it does not exist; re-read to tell apart.
		var room model.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrRoomNotFound
			}
			return 0, unavailable("read room after failed increment", err)
		}
		return 0, ErrRoomFull
	}

	var room model.Room
	if err := tx.First(&room, roomID).Error; err != nil {
		return 0, unavailable("read occupancy after increment", err)
	}
	return room.Current, nil
}

// decrementOccupancy releases one slot, clamped at zero. By construction the
// counter should never be zero here; the clamp keeps the 0 <= current
// invariant even if it is.
func decrementOccupancy(tx *gorm.DB, roomID int64) error {
	res := tx.Model(&model.Room{}).
		Where("id = ? AND current > 0", roomID).
		Update("current", gorm.Expr("current - 1"))
	if res.Error != nil {
		return unavailable("decrement occupancy", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&model.Room{}).Where("id = ?", roomID).Count(&count).Error; err != nil {
			return unavailable("read room after failed decrement", err)
		}
		if count == 0 {
			return ErrRoomNotFound
		}
	}
	return nil
}
