package friend

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"strive/internal/activity"
	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
	"strive/pkg/platform/sentinel"
)

// ActivityPublisher receives domain events worth recording.
type ActivityPublisher interface {
	Emit(ctx context.Context, event activity.Event) error
}

// Service owns friend requests and the mutual friendship edge set.
type Service struct {
	store    Store
	logger   *slog.Logger
	activity ActivityPublisher
	now      func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithActivity(publisher ActivityPublisher) Option {
	return func(s *Service) { s.activity = publisher }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendRequest offers friendship. Rejected when the pair is already friends
// or a request is already pending in either direction.
func (s *Service) SendRequest(ctx context.Context, from, to id.UserID) (*Request, error) {
	if from == to {
		return nil, dErrors.New(dErrors.CodeBadRequest, "cannot send a friend request to yourself")
	}
	friends, err := s.store.AreFriends(ctx, from, to)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check friendship")
	}
	if friends {
		return nil, dErrors.New(dErrors.CodeNotAllowed, "users are already friends")
	}

	request := &Request{From: from, To: to, Status: StatusPending, CreatedAt: s.now()}
	if err := s.store.CreateRequest(ctx, request); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeNotAllowed, "a friend request is already pending between these users")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create friend request")
	}
	return request, nil
}

// ListRequests returns pending requests where user is either side.
func (s *Service) ListRequests(ctx context.Context, user id.UserID) ([]*Request, error) {
	requests, err := s.store.ListRequestsInvolving(ctx, user)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list friend requests")
	}
	return requests, nil
}

// RemoveRequest withdraws the caller's outgoing request.
func (s *Service) RemoveRequest(ctx context.Context, from, to id.UserID) error {
	if err := s.store.DeleteRequest(ctx, from, to); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "friend request not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove friend request")
	}
	return nil
}

// Accept turns the pending request from -> to into a friendship. The
// request is consumed either way.
func (s *Service) Accept(ctx context.Context, from, to id.UserID) error {
	if _, err := s.store.FindRequest(ctx, from, to); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "friend request not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load friend request")
	}
	if err := s.store.DeleteRequest(ctx, from, to); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume friend request")
	}
	if err := s.store.CreateFriendship(ctx, from, to); err != nil && !errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create friendship")
	}
	if s.activity != nil {
		_ = s.activity.Emit(ctx, activity.Event{
			Actor:  to,
			Action: activity.ActionFriendsAccepted,
			Object: from.String(),
		})
	}
	return nil
}

// Reject discards the pending request from -> to.
func (s *Service) Reject(ctx context.Context, from, to id.UserID) error {
	if err := s.store.DeleteRequest(ctx, from, to); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "friend request not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reject friend request")
	}
	return nil
}

func (s *Service) ListFriends(ctx context.Context, user id.UserID) ([]id.UserID, error) {
	friends, err := s.store.ListFriends(ctx, user)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list friends")
	}
	return friends, nil
}

// RemoveFriend severs an existing friendship. Removing a non-friend is a
// precondition violation, matching community membership semantics.
func (s *Service) RemoveFriend(ctx context.Context, user, friend id.UserID) error {
	if err := s.store.DeleteFriendship(ctx, user, friend); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotAllowed, "users are not friends")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove friend")
	}
	return nil
}
