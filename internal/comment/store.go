package comment

import (
	"context"

	id "strive/pkg/domain"
)

// Store is the persistence boundary for comments.
type Store interface {
	Create(ctx context.Context, comment *Comment) error
	FindByID(ctx context.Context, commentID id.CommentID) (*Comment, error)
	ListAll(ctx context.Context) ([]*Comment, error)
	ListByTarget(ctx context.Context, target id.PostID) ([]*Comment, error)
	Update(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, commentID id.CommentID) error
}
