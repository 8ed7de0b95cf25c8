package model

import "time"

// Room represents a capacity-limited room created by an admin. Current is the
// live occupancy counter and must always equal the number of open entries
// referencing the room.
type Room struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	AdminID    int64  `gorm:"not null;uniqueIndex:idx_rooms_admin_name,priority:1;uniqueIndex:idx_rooms_admin_number,priority:1" json:"adminId"`
	Name       string `gorm:"size:128;not null;uniqueIndex:idx_rooms_admin_name,priority:2" json:"name"`
	RoomNumber int    `gorm:"not null;uniqueIndex:idx_rooms_admin_number,priority:2" json:"roomNumber"`
	Capacity   int    `gorm:"not null" json:"capacity"`
	Current    int    `gorm:"not null;default:0" json:"current"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`

	// Associations
	Admin Admin `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
