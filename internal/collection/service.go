package collection

import (
	"context"
	"errors"
	"log/slog"
	"time"

	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
	"strive/pkg/platform/sentinel"
)

// Service owns collections and the global library.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create makes an owned collection.
func (s *Service) Create(ctx context.Context, owner id.UserID, name, description string) (*Collection, error) {
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "collection owner is required")
	}
	collection, err := New(id.NewCollectionID(), &owner, name, description, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, collection); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create collection")
	}
	return collection, nil
}

// CreateGlobalLibrary makes an unowned collection visible to everyone.
func (s *Service) CreateGlobalLibrary(ctx context.Context, name, description string) (*Collection, error) {
	collection, err := New(id.NewCollectionID(), nil, name, description, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, collection); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create global library")
	}
	return collection, nil
}

func (s *Service) List(ctx context.Context) ([]*Collection, error) {
	collections, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list collections")
	}
	return collections, nil
}

func (s *Service) ListByOwner(ctx context.Context, owner id.UserID) ([]*Collection, error) {
	collections, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list collections by owner")
	}
	return collections, nil
}

func (s *Service) Get(ctx context.Context, collectionID id.CollectionID) (*Collection, error) {
	collection, err := s.store.FindByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "collection not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load collection")
	}
	return collection, nil
}

// AddPost links a post after the actor gate passes.
func (s *Service) AddPost(ctx context.Context, collectionID id.CollectionID, post id.PostID, actor id.UserID) error {
	if err := s.assertCurator(ctx, collectionID, actor); err != nil {
		return err
	}
	if err := s.store.AddPost(ctx, collectionID, post); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to add post to collection")
	}
	return nil
}

// RemovePost unlinks a post. Removing a link that is not present is a
// silent no-op, matching community post-link semantics.
func (s *Service) RemovePost(ctx context.Context, collectionID id.CollectionID, post id.PostID, actor id.UserID) error {
	if err := s.assertCurator(ctx, collectionID, actor); err != nil {
		return err
	}
	if err := s.store.RemovePost(ctx, collectionID, post); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove post from collection")
	}
	return nil
}

// Delete removes an owned collection. The global library cannot be deleted.
func (s *Service) Delete(ctx context.Context, collectionID id.CollectionID, actor id.UserID) error {
	collection, err := s.Get(ctx, collectionID)
	if err != nil {
		return err
	}
	if collection.IsGlobal() {
		return dErrors.New(dErrors.CodeNotAllowed, "the global library cannot be deleted")
	}
	if *collection.Owner != actor {
		return dErrors.New(dErrors.CodeNotAllowed, "user is not the owner of this collection")
	}
	if err := s.store.Delete(ctx, collectionID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "collection not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete collection")
	}
	return nil
}

// assertCurator allows the owner of an owned collection, or anyone on the
// global library.
func (s *Service) assertCurator(ctx context.Context, collectionID id.CollectionID, actor id.UserID) error {
	collection, err := s.Get(ctx, collectionID)
	if err != nil {
		return err
	}
	if collection.IsGlobal() {
		return nil
	}
	if *collection.Owner != actor {
		return dErrors.New(dErrors.CodeNotAllowed, "user is not the owner of this collection")
	}
	return nil
}
