package store

import (
	"context"
	"iter"

	"gorm.io/gorm"

	"github.com/thekillingspree/quick-entry/internal/model"
)

// Store defines the interface for all database operations. The check-in and
// check-out methods are transactional: the occupancy counter and the entry
// ledger are mutated together or not at all.
type Store interface {
	DB() *gorm.DB

	// Accounts.
	CreateUser(ctx context.Context, user *model.User) error
	CreateAdmin(ctx context.Context, admin *model.Admin) error
	UserByID(ctx context.Context, id int64) (model.User, error)
	UserByUsername(ctx context.Context, username string) (model.User, error)
	UserByTecID(ctx context.Context, tecID string) (model.User, error)
	AdminByUsername(ctx context.Context, username string) (model.Admin, error)

	// Room registry.
	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id int64) (model.Room, error)
	ListRooms(ctx context.Context) ([]model.Room, error)

	// Occupancy transitions.
	CheckIn(ctx context.Context, userID, roomID, tsMillis int64) (occupancy int, err error)
	CheckOut(ctx context.Context, userID, roomID, tsMillis int64) (entry model.Entry, freedFullRoom bool, err error)

	// Entry ledger projections.
	History(ctx context.Context, userID int64) iter.Seq2[model.Entry, error]
	Occupants(ctx context.Context, roomID int64) ([]Occupant, error)

	// Consistency audit.
	AuditOccupancy(ctx context.Context) ([]OccupancyRepair, error)
}

// Occupant is an open entry joined with the user's display fields. Password
// hashes never pass through here.
type Occupant struct {
	EntryID   int64  `json:"entryId"`
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	FullName  string `json:"fullname"`
	TecID     string `json:"tecid"`
	EnteredAt int64  `json:"enteredAt"`
}

// OccupancyRepair records one occupancy counter corrected by the auditor.
type OccupancyRepair struct {
	RoomID int64
	Stored int
	Actual int
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for components that run their own
// queries (notification worker, subscription handlers).
func (s *gormStore) DB() *gorm.DB {
	return s.db
}
