package collection

import (
	"context"

	id "strive/pkg/domain"
)

// Store is the persistence boundary for collections.
type Store interface {
	Create(ctx context.Context, collection *Collection) error
	FindByID(ctx context.Context, collectionID id.CollectionID) (*Collection, error)
	ListAll(ctx context.Context) ([]*Collection, error)
	ListByOwner(ctx context.Context, owner id.UserID) ([]*Collection, error)
	// AddPost links a post. ErrNotFound when the collection is absent;
	// linking an already linked post is a no-op.
	AddPost(ctx context.Context, collectionID id.CollectionID, post id.PostID) error
	// RemovePost unlinks a post; removing an absent link is a no-op.
	RemovePost(ctx context.Context, collectionID id.CollectionID, post id.PostID) error
	Delete(ctx context.Context, collectionID id.CollectionID) error
}
