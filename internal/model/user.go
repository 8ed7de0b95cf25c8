package model

import "time"

// User represents a student identified by a badge (tec ID) alongside their
// login credentials. CurrentRoomID is null when the user is outside; it is
// mutated only inside the occupancy controller's transaction.
type User struct {
	ID            int64   `gorm:"primaryKey" json:"id"`
	Username      string  `gorm:"size:64;uniqueIndex;not null" json:"username"`
	FullName      string  `gorm:"size:128;not null" json:"fullname"`
	Email         string  `gorm:"size:256;uniqueIndex;not null" json:"email"`
	Password      string  `gorm:"size:128;not null" json:"-"`
	TecID         string  `gorm:"column:tecid;size:32;uniqueIndex;not null" json:"tecid"`
	CurrentRoomID *int64  `gorm:"index" json:"currentRoomId"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}
