package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"strive/internal/activity"
	"strive/internal/community/models"
	"strive/internal/platform/metrics"
	"strive/internal/platform/middleware"
	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
	"strive/pkg/platform/sentinel"
)

// Store is the persistence boundary for communities. Membership and post
// linkage mutations are conditional single operations so two racing requests
// cannot both pass the same precondition.
type Store interface {
	Create(ctx context.Context, community *models.Community) error
	FindByID(ctx context.Context, communityID id.CommunityID) (*models.Community, error)
	// FindByLinkedPost returns the community whose post set contains post.
	// At most one community links any post; ErrNotFound when none does.
	FindByLinkedPost(ctx context.Context, post id.PostID) (*models.Community, error)
	ListAll(ctx context.Context) ([]*models.Community, error)
	ListByName(ctx context.Context, name string) ([]*models.Community, error)
	ListByMember(ctx context.Context, user id.UserID) ([]*models.Community, error)
	// AddMember appends user to the member set. ErrNotFound when the
	// community is absent; ErrConflict when user is already a member.
	AddMember(ctx context.Context, communityID id.CommunityID, user id.UserID) error
	// RemoveMember removes user from the member set. ErrNotFound when the
	// community is absent or user is not currently a member.
	RemoveMember(ctx context.Context, communityID id.CommunityID, user id.UserID) error
	// AddPost links a post. ErrNotFound when the community is absent.
	AddPost(ctx context.Context, communityID id.CommunityID, post id.PostID) error
	// RemovePost unlinks a post; removing an absent link is a no-op.
	RemovePost(ctx context.Context, communityID id.CommunityID, post id.PostID) error
}

// ActivityPublisher receives domain events worth recording.
type ActivityPublisher interface {
	Emit(ctx context.Context, event activity.Event) error
}

// Service owns community membership and post linkage.
type Service struct {
	store    Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
	activity ActivityPublisher
	now      func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithActivity(publisher ActivityPublisher) Option {
	return func(s *Service) { s.activity = publisher }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create makes a community whose member set is exactly {creator} and whose
// post set is empty.
func (s *Service) Create(ctx context.Context, name, description string, creator id.UserID) (*models.Community, error) {
	community, err := models.NewCommunity(id.NewCommunityID(), name, description, creator, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, community); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create community")
	}
	if s.metrics != nil {
		s.metrics.CommunitiesCreated.Inc()
	}
	s.emit(ctx, activity.Event{Action: activity.ActionCommunityMade, Object: community.ID.String()})
	return community, nil
}

// List returns all communities, most recently created first.
func (s *Service) List(ctx context.Context) ([]*models.Community, error) {
	communities, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list communities")
	}
	return communities, nil
}

func (s *Service) GetByName(ctx context.Context, name string) ([]*models.Community, error) {
	communities, err := s.store.ListByName(ctx, name)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list communities by name")
	}
	return communities, nil
}

func (s *Service) ListByMember(ctx context.Context, user id.UserID) ([]*models.Community, error) {
	communities, err := s.store.ListByMember(ctx, user)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list communities by member")
	}
	return communities, nil
}

// FindByLinkedPost resolves the community owning a post link, or NotFound.
func (s *Service) FindByLinkedPost(ctx context.Context, post id.PostID) (*models.Community, error) {
	community, err := s.store.FindByLinkedPost(ctx, post)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no community links this post")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve community for post")
	}
	return community, nil
}

// Join adds user to the member set. Joining twice is a precondition
// violation, not an idempotent success.
func (s *Service) Join(ctx context.Context, communityID id.CommunityID, user id.UserID) error {
	if err := s.store.AddMember(ctx, communityID, user); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.New(dErrors.CodeNotFound, "community not found")
		case errors.Is(err, sentinel.ErrConflict):
			return dErrors.New(dErrors.CodeNotAllowed, "user is already a member of this community")
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to join community")
		}
	}
	if s.metrics != nil {
		s.metrics.CommunityJoins.Inc()
	}
	s.emit(ctx, activity.Event{Action: activity.ActionMemberJoined, Object: communityID.String()})
	return nil
}

// Leave removes user from the member set. Leaving a community you are not a
// member of is a precondition violation; membership keeps strict semantics
// while post links use filter semantics (see RemoveLinkedPost).
func (s *Service) Leave(ctx context.Context, communityID id.CommunityID, user id.UserID) error {
	if _, err := s.get(ctx, communityID); err != nil {
		return err
	}
	if err := s.store.RemoveMember(ctx, communityID, user); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotAllowed, "user is not a member of this community")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to leave community")
	}
	s.emit(ctx, activity.Event{Action: activity.ActionMemberLeft, Object: communityID.String()})
	return nil
}

// AssertMember is the precondition gate used by cross-concept workflows.
// It reads, never mutates.
func (s *Service) AssertMember(ctx context.Context, communityID id.CommunityID, user id.UserID) error {
	community, err := s.get(ctx, communityID)
	if err != nil {
		return err
	}
	if !community.HasMember(user) {
		return dErrors.New(dErrors.CodeNotAllowed, "user is not a member of this community")
	}
	return nil
}

// AddLinkedPost records that a post belongs to this community. Only the
// post-creation workflow calls this, after asserting membership.
func (s *Service) AddLinkedPost(ctx context.Context, communityID id.CommunityID, post id.PostID) error {
	if err := s.store.AddPost(ctx, communityID, post); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "community not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to link post to community")
	}
	return nil
}

// RemoveLinkedPost unlinks a post. Removing a link that is not present is a
// silent no-op: the caller only cares that the link is gone.
func (s *Service) RemoveLinkedPost(ctx context.Context, communityID id.CommunityID, post id.PostID) error {
	if err := s.store.RemovePost(ctx, communityID, post); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "community not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to unlink post from community")
	}
	return nil
}

func (s *Service) get(ctx context.Context, communityID id.CommunityID) (*models.Community, error) {
	community, err := s.store.FindByID(ctx, communityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "community not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load community")
	}
	return community, nil
}

func (s *Service) emit(ctx context.Context, event activity.Event) {
	if s.activity == nil {
		return
	}
	if actor, err := id.ParseUserID(middleware.GetUserID(ctx)); err == nil {
		event.Actor = actor
	}
	_ = s.activity.Emit(ctx, event)
}
