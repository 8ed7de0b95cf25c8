package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/thekillingspree/quick-entry/internal/model"
)

// AuditOccupancy recomputes the open-entry count for every room and repairs
// any counter that drifted from it. Repairs are conditional on the stored
// value so a concurrent check-in/check-out is never clobbered.
func (s *gormStore) AuditOccupancy(ctx context.Context) ([]OccupancyRepair, error) {
	var repairs []OccupancyRepair
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rooms []model.Room
		if err := tx.Find(&rooms).Error; err != nil {
			return unavailable("audit: list rooms", err)
		}

		type openCount struct {
			RoomID int64
			N      int
		}
		var counts []openCount
		err := tx.Model(&model.Entry{}).
			Select("room_id, COUNT(*) AS n").
			Where("exit_time IS NULL").
			Group("room_id").
			Scan(&counts).Error
		if err != nil {
			return unavailable("audit: count open entries", err)
		}

		countMap := make(map[int64]int, len(counts))
		for _, c := range counts {
			countMap[c.RoomID] = c.N
		}

		for _, room := range rooms {
			actual := countMap[room.ID]
			if actual == room.Current {
				continue
			}
			res := tx.Model(&model.Room{}).
				Where("id = ? AND current = ?", room.ID, room.Current).
				Update("current", actual)
			if res.Error != nil {
				return unavailable("audit: repair occupancy", res.Error)
			}
			if res.RowsAffected > 0 {
				repairs = append(repairs, OccupancyRepair{
					RoomID: room.ID,
					Stored: room.Current,
					Actual: actual,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repairs, nil
}
