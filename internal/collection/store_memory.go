package collection

import (
	"context"
	"sort"
	"sync"
	"time"

	id "strive/pkg/domain"
	"strive/pkg/platform/sentinel"
)

// InMemoryStore keeps collections in a map guarded by a RWMutex.
type InMemoryStore struct {
	mu          sync.RWMutex
	collections map[id.CollectionID]*Collection
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{collections: make(map[id.CollectionID]*Collection)}
}

func (s *InMemoryStore) Create(_ context.Context, collection *Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.collections[collection.ID]; exists {
		return sentinel.ErrConflict
	}
	s.collections[collection.ID] = clone(collection)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, collectionID id.CollectionID) (*Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	collection, ok := s.collections[collectionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(collection), nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]*Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Collection, 0, len(s.collections))
	for _, collection := range s.collections {
		out = append(out, clone(collection))
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) ListByOwner(_ context.Context, owner id.UserID) ([]*Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Collection
	for _, collection := range s.collections {
		if collection.Owner != nil && *collection.Owner == owner {
			out = append(out, clone(collection))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) AddPost(_ context.Context, collectionID id.CollectionID, post id.PostID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	collection, ok := s.collections[collectionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if collection.HasPost(post) {
		return nil
	}
	collection.Posts = append(collection.Posts, post)
	collection.UpdatedAt = time.Now()
	return nil
}

func (s *InMemoryStore) RemovePost(_ context.Context, collectionID id.CollectionID, post id.PostID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	collection, ok := s.collections[collectionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	for i, linked := range collection.Posts {
		if linked == post {
			collection.Posts = append(collection.Posts[:i], collection.Posts[i+1:]...)
			collection.UpdatedAt = time.Now()
			break
		}
	}
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, collectionID id.CollectionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collectionID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.collections, collectionID)
	return nil
}

func sortNewestFirst(collections []*Collection) {
	sort.Slice(collections, func(i, j int) bool {
		return collections[i].CreatedAt.After(collections[j].CreatedAt)
	})
}

func clone(collection *Collection) *Collection {
	copied := *collection
	if collection.Owner != nil {
		owner := *collection.Owner
		copied.Owner = &owner
	}
	copied.Posts = append([]id.PostID(nil), collection.Posts...)
	return &copied
}
