package auth

import (
	"context"
	"errors"

	"github.com/thekillingspree/quick-entry/internal/parse"
	"github.com/thekillingspree/quick-entry/internal/store"
)

// ErrUnresolved means a presented badge credential does not map to any user.
var ErrUnresolved = errors.New("credential could not be resolved")

// Resolver maps a presented badge credential to a stable user ID.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (int64, error)
}

type storeResolver struct {
	store store.Store
}

// NewResolver creates a store-backed badge resolver.
func NewResolver(s store.Store) Resolver {
	return &storeResolver{store: s}
}

// Resolve normalizes the credential and looks up the owning user. Malformed
// and unknown credentials both fail with ErrUnresolved; the caller cannot
// probe which badge IDs exist.
func (r *storeResolver) Resolve(ctx context.Context, credential string) (int64, error) {
	badge, err := parse.Badge(credential)
	if err != nil {
		return 0, ErrUnresolved
	}
	user, err := r.store.UserByTecID(ctx, badge)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return 0, ErrUnresolved
		}
		return 0, err
	}
	return user.ID, nil
}
