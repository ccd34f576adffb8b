package comment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"strive/internal/activity"
	"strive/internal/platform/middleware"
	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
	"strive/pkg/platform/sentinel"
)

// ActivityPublisher receives domain events worth recording.
type ActivityPublisher interface {
	Emit(ctx context.Context, event activity.Event) error
}

// Service owns comment content. Target existence is asserted by the
// commenting workflow, not here.
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

func (s *Service) Create(ctx context.Context, author id.UserID, target id.PostID, content string) (*Comment, error) {
	comment, err := New(id.NewCommentID(), author, target, content, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, comment); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create comment")
	}
	s.emit(ctx, activity.Event{Action: activity.ActionCommentWritten, Object: comment.ID.String()})
	return comment, nil
}

func (s *Service) List(ctx context.Context) ([]*Comment, error) {
	comments, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list comments")
	}
	return comments, nil
}

func (s *Service) ListByTarget(ctx context.Context, target id.PostID) ([]*Comment, error) {
	comments, err := s.store.ListByTarget(ctx, target)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list comments by target")
	}
	return comments, nil
}

func (s *Service) Get(ctx context.Context, commentID id.CommentID) (*Comment, error) {
	comment, err := s.store.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "comment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load comment")
	}
	return comment, nil
}

func (s *Service) Update(ctx context.Context, commentID id.CommentID, content string) (*Comment, error) {
	comment, err := s.Get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "comment content cannot be empty")
	}
	if len(content) > maxContentLength {
		return nil, dErrors.New(dErrors.CodeBadRequest, "comment content is too long")
	}
	comment.Content = content
	comment.UpdatedAt = s.now()
	if err := s.store.Update(ctx, comment); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "comment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update comment")
	}
	return comment, nil
}

func (s *Service) Delete(ctx context.Context, commentID id.CommentID) error {
	if err := s.store.Delete(ctx, commentID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "comment not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete comment")
	}
	return nil
}

// AssertAuthor is the precondition gate for comment mutations.
func (s *Service) AssertAuthor(ctx context.Context, commentID id.CommentID, user id.UserID) error {
	comment, err := s.Get(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.Author != user {
		return dErrors.New(dErrors.CodeNotAllowed, "user is not the author of this comment")
	}
	return nil
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
