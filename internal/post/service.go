package post

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"strive/internal/activity"
	"strive/internal/platform/metrics"
	"strive/internal/platform/middleware"
	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
	"strive/pkg/platform/sentinel"
)

// ActivityPublisher receives domain events worth recording.
type ActivityPublisher interface {
	Emit(ctx context.Context, event activity.Event) error
}

// Service owns post content. Community linkage lives in the community
// concept; the posting workflow composes the two.
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

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, author id.UserID, content string) (*Post, error) {
	post, err := New(id.NewPostID(), author, content, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, post); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create post")
	}
	if s.metrics != nil {
		s.metrics.PostsCreated.Inc()
	}
	s.emit(ctx, activity.Event{Action: activity.ActionPostPublished, Object: post.ID.String()})
	return post, nil
}

func (s *Service) List(ctx context.Context) ([]*Post, error) {
	posts, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list posts")
	}
	return posts, nil
}

func (s *Service) ListByAuthor(ctx context.Context, author id.UserID) ([]*Post, error) {
	posts, err := s.store.ListByAuthor(ctx, author)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list posts by author")
	}
	return posts, nil
}

func (s *Service) Get(ctx context.Context, postID id.PostID) (*Post, error) {
	post, err := s.store.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "post not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load post")
	}
	return post, nil
}

// Update replaces the content of an existing post. Authorship is asserted
// by the caller.
func (s *Service) Update(ctx context.Context, postID id.PostID, content string) (*Post, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "post content cannot be empty")
	}
	if len(content) > maxContentLength {
		return nil, dErrors.New(dErrors.CodeBadRequest, "post content is too long")
	}
	post.Content = content
	post.UpdatedAt = s.now()
	if err := s.store.Update(ctx, post); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "post not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update post")
	}
	return post, nil
}

func (s *Service) Delete(ctx context.Context, postID id.PostID) error {
	if err := s.store.Delete(ctx, postID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "post not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete post")
	}
	s.emit(ctx, activity.Event{Action: activity.ActionPostDeleted, Object: postID.String()})
	return nil
}

// AssertAuthor is the precondition gate for post mutations: the post must
// exist and be authored by user.
func (s *Service) AssertAuthor(ctx context.Context, postID id.PostID, user id.UserID) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.Author != user {
		return dErrors.New(dErrors.CodeNotAllowed, "user is not the author of this post")
	}
	return nil
}

// AssertExists is the precondition gate used by the commenting workflow.
func (s *Service) AssertExists(ctx context.Context, postID id.PostID) error {
	_, err := s.Get(ctx, postID)
	return err
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
