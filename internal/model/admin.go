package model

import "time"

// Admin represents an administrator account. Rooms are scoped per admin: two
// admins may own rooms with the same name or number.
type Admin struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	FName     string `gorm:"column:fname;size:128;not null" json:"fname"`
	Password  string `gorm:"size:128;not null" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Rooms []Room `gorm:"foreignKey:AdminID" json:"-"`
}
