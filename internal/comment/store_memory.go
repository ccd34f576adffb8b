package comment

import (
	"context"
	"sort"
	"sync"

	id "strive/pkg/domain"
	"strive/pkg/platform/sentinel"
)

// InMemoryStore keeps comments in a map guarded by a RWMutex.
type InMemoryStore struct {
	mu       sync.RWMutex
	comments map[id.CommentID]*Comment
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{comments: make(map[id.CommentID]*Comment)}
}

func (s *InMemoryStore) Create(_ context.Context, comment *Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.comments[comment.ID]; exists {
		return sentinel.ErrConflict
	}
	copied := *comment
	s.comments[comment.ID] = &copied
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, commentID id.CommentID) (*Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comment, ok := s.comments[commentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]*Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Comment, 0, len(s.comments))
	for _, comment := range s.comments {
		copied := *comment
		out = append(out, &copied)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) ListByTarget(_ context.Context, target id.PostID) ([]*Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Comment
	for _, comment := range s.comments {
		if comment.Target == target {
			copied := *comment
			out = append(out, &copied)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, comment *Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[comment.ID]; !ok {
		return sentinel.ErrNotFound
	}
	copied := *comment
	s.comments[comment.ID] = &copied
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, commentID id.CommentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[commentID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.comments, commentID)
	return nil
}

func sortNewestFirst(comments []*Comment) {
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
}
