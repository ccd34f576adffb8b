package user

import (
	"context"

	id "strive/pkg/domain"
)

// Store is the persistence boundary for accounts. Username uniqueness is
// enforced here, not in the service.
type Store interface {
	// Create inserts the user. ErrConflict when the username is taken.
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, userID id.UserID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	ListAll(ctx context.Context) ([]*User, error)
	// Update persists field changes. ErrConflict when a username change
	// collides with an existing account.
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, userID id.UserID) error
}
