package model

// Entry is one row of the append-only entry ledger. Timestamp and ExitTime
// are epoch milliseconds; a null ExitTime means the entry is open and the
// user is still inside the room. A closed entry is immutable and never
// deleted.
type Entry struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	UserID    int64  `gorm:"not null;index:idx_entries_user_ts,priority:1" json:"userId"`
	RoomID    int64  `gorm:"not null;index" json:"roomId"`
	Timestamp int64  `gorm:"not null;index:idx_entries_user_ts,priority:2" json:"timestamp"`
	ExitTime  *int64 `gorm:"index" json:"exittime"`

	// Associations
	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Room Room `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Open reports whether the entry is still open.
func (e *Entry) Open() bool {
	return e.ExitTime == nil
}
