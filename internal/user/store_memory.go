package user

import (
	"context"
	"sort"
	"sync"

	id "strive/pkg/domain"
	"strive/pkg/platform/sentinel"
)

// InMemoryStore keeps accounts in maps guarded by a RWMutex, with a
// username index enforcing uniqueness.
type InMemoryStore struct {
	mu         sync.RWMutex
	users      map[id.UserID]*User
	byUsername map[string]id.UserID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:      make(map[id.UserID]*User),
		byUsername: make(map[string]id.UserID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byUsername[user.Username]; taken {
		return sentinel.ErrConflict
	}
	if _, exists := s.users[user.ID]; exists {
		return sentinel.ErrConflict
	}
	s.users[user.ID] = clone(user)
	s.byUsername[user.Username] = user.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(user), nil
}

func (s *InMemoryStore) FindByUsername(_ context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byUsername[username]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.users[userID]), nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, clone(user))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Username < out[j].Username
	})
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.users[user.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if user.Username != current.Username {
		if _, taken := s.byUsername[user.Username]; taken {
			return sentinel.ErrConflict
		}
		delete(s.byUsername, current.Username)
		s.byUsername[user.Username] = user.ID
	}
	s.users[user.ID] = clone(user)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byUsername, user.Username)
	delete(s.users, userID)
	return nil
}

func clone(user *User) *User {
	copied := *user
	copied.PasswordHash = append([]byte(nil), user.PasswordHash...)
	return &copied
}
