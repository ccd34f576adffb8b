package post

import (
	"context"

	id "strive/pkg/domain"
)

// Store is the persistence boundary for posts. Implementations return
// sentinel errors; the service translates them into the domain taxonomy.
type Store interface {
	Create(ctx context.Context, post *Post) error
	FindByID(ctx context.Context, postID id.PostID) (*Post, error)
	ListAll(ctx context.Context) ([]*Post, error)
	ListByAuthor(ctx context.Context, author id.UserID) ([]*Post, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, postID id.PostID) error
}
