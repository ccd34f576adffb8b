package friend

import (
	"context"

	id "strive/pkg/domain"
)

// Store is the persistence boundary for requests and friendships. A
// friendship is an unordered pair; implementations must treat (a,b) and
// (b,a) as the same edge.
type Store interface {
	// CreateRequest records a pending request. ErrConflict when a request
	// already exists in either direction between the pair.
	CreateRequest(ctx context.Context, request *Request) error
	// FindRequest returns the pending request from -> to, or ErrNotFound.
	FindRequest(ctx context.Context, from, to id.UserID) (*Request, error)
	// DeleteRequest removes the pending request from -> to, or ErrNotFound.
	DeleteRequest(ctx context.Context, from, to id.UserID) error
	// ListRequestsInvolving returns pending requests where user is either
	// side, newest first.
	ListRequestsInvolving(ctx context.Context, user id.UserID) ([]*Request, error)
	// CreateFriendship records the mutual edge. ErrConflict when it exists.
	CreateFriendship(ctx context.Context, a, b id.UserID) error
	// DeleteFriendship removes the edge, or ErrNotFound when absent.
	DeleteFriendship(ctx context.Context, a, b id.UserID) error
	AreFriends(ctx context.Context, a, b id.UserID) (bool, error)
	ListFriends(ctx context.Context, user id.UserID) ([]id.UserID, error)
}
