package post

import (
	"context"
	"sort"
	"sync"

	id "strive/pkg/domain"
	"strive/pkg/platform/sentinel"
)

// InMemoryStore keeps posts in a map guarded by a RWMutex.
type InMemoryStore struct {
	mu    sync.RWMutex
	posts map[id.PostID]*Post
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{posts: make(map[id.PostID]*Post)}
}

func (s *InMemoryStore) Create(_ context.Context, post *Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.posts[post.ID]; exists {
		return sentinel.ErrConflict
	}
	copied := *post
	s.posts[post.ID] = &copied
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, postID id.PostID) (*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[postID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Post, 0, len(s.posts))
	for _, post := range s.posts {
		copied := *post
		out = append(out, &copied)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) ListByAuthor(_ context.Context, author id.UserID) ([]*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Post
	for _, post := range s.posts {
		if post.Author == author {
			copied := *post
			out = append(out, &copied)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, post *Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[post.ID]; !ok {
		return sentinel.ErrNotFound
	}
	copied := *post
	s.posts[post.ID] = &copied
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, postID id.PostID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[postID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.posts, postID)
	return nil
}

func sortNewestFirst(posts []*Post) {
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
