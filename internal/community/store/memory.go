package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"strive/internal/community/models"
	id "strive/pkg/domain"
	"strive/pkg/platform/sentinel"
)

// InMemory keeps communities in a map guarded by a RWMutex. Membership and
// post-link mutations check their preconditions under the write lock, which
// gives the same race-free conditional semantics as the postgres store.
type InMemory struct {
	mu          sync.RWMutex
	communities map[id.CommunityID]*models.Community
}

func NewInMemory() *InMemory {
	return &InMemory{communities: make(map[id.CommunityID]*models.Community)}
}

func (s *InMemory) Create(_ context.Context, community *models.Community) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.communities[community.ID]; exists {
		return sentinel.ErrConflict
	}
	s.communities[community.ID] = clone(community)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, communityID id.CommunityID) (*models.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	community, ok := s.communities[communityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(community), nil
}

func (s *InMemory) FindByLinkedPost(_ context.Context, post id.PostID) (*models.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, community := range s.communities {
		if community.HasPost(post) {
			return clone(community), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListAll(_ context.Context) ([]*models.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Community, 0, len(s.communities))
	for _, community := range s.communities {
		out = append(out, clone(community))
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemory) ListByName(_ context.Context, name string) ([]*models.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Community
	for _, community := range s.communities {
		if community.Name == name {
			out = append(out, clone(community))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemory) ListByMember(_ context.Context, user id.UserID) ([]*models.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Community
	for _, community := range s.communities {
		if community.HasMember(user) {
			out = append(out, clone(community))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemory) AddMember(_ context.Context, communityID id.CommunityID, user id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	community, ok := s.communities[communityID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if community.HasMember(user) {
		return sentinel.ErrConflict
	}
	community.Members = append(community.Members, user)
	community.UpdatedAt = time.Now()
	return nil
}

func (s *InMemory) RemoveMember(_ context.Context, communityID id.CommunityID, user id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	community, ok := s.communities[communityID]
	if !ok {
		return sentinel.ErrNotFound
	}
	for i, member := range community.Members {
		if member == user {
			community.Members = append(community.Members[:i], community.Members[i+1:]...)
			community.UpdatedAt = time.Now()
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemory) AddPost(_ context.Context, communityID id.CommunityID, post id.PostID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	community, ok := s.communities[communityID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if community.HasPost(post) {
		return nil
	}
	community.Posts = append(community.Posts, post)
	community.UpdatedAt = time.Now()
	return nil
}

func (s *InMemory) RemovePost(_ context.Context, communityID id.CommunityID, post id.PostID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	community, ok := s.communities[communityID]
	if !ok {
		return sentinel.ErrNotFound
	}
	for i, linked := range community.Posts {
		if linked == post {
			community.Posts = append(community.Posts[:i], community.Posts[i+1:]...)
			community.UpdatedAt = time.Now()
			break
		}
	}
	return nil
}

func sortNewestFirst(communities []*models.Community) {
	sort.Slice(communities, func(i, j int) bool {
		return communities[i].CreatedAt.After(communities[j].CreatedAt)
	})
}

func clone(community *models.Community) *models.Community {
	copied := *community
	copied.Members = append([]id.UserID(nil), community.Members...)
	copied.Posts = append([]id.PostID(nil), community.Posts...)
	return &copied
}
