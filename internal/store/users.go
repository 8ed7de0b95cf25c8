package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/thekillingspree/quick-entry/internal/model"
)

// CreateUser persists a new user. Username, email and tec ID are unique.
func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUser
		}
		return unavailable("create user", err)
	}
	return nil
}

// CreateAdmin persists a new admin account.
func (s *gormStore) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUser
		}
		return unavailable("create admin", err)
	}
	return nil
}

// UserByID returns the user or ErrUserNotFound.
func (s *gormStore) UserByID(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, unavailable("get user", err)
	}
	return user, nil
}

// UserByUsername looks a user up for login.
func (s *gormStore) UserByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, unavailable("get user by username", err)
	}
	return user, nil
}

// UserByTecID maps a badge credential to its user. The caller is responsible
// for normalizing the credential first.
func (s *gormStore) UserByTecID(ctx context.Context, tecID string) (model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "tecid = ?", tecID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, unavailable("get user by tec ID", err)
	}
	return user, nil
}

// AdminByUsername looks an admin up for login.
func (s *gormStore) AdminByUsername(ctx context.Context, username string) (model.Admin, error) {
	var admin model.Admin
	if err := s.db.WithContext(ctx).First(&admin, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Admin{}, ErrUserNotFound
		}
		return model.Admin{}, unavailable("get admin by username", err)
	}
	return admin, nil
}

// claimCurrentRoom marks the user as inside the room, conditional on the user
// still being outside. A zero row count means another writer got there first.
func claimCurrentRoom(tx *gorm.DB, userID, roomID int64) error {
	res := tx.Model(&model.User{}).
		Where("id = ? AND current_room_id IS NULL", userID).
		Update("current_room_id", roomID)
	if res.Error != nil {
		return unavailable("claim current room", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStoreConflict
	}
	return nil
}

// releaseCurrentRoom clears the user's room reference, conditional on it
// still pointing at the expected room.
func releaseCurrentRoom(tx *gorm.DB, userID, roomID int64) error {
	res := tx.Model(&model.User{}).
		Where("id = ? AND current_room_id = ?", userID, roomID).
		Update("current_room_id", nil)
	if res.Error != nil {
		return unavailable("release current room", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStoreConflict
	}
	return nil
}
