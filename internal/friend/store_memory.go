package friend

import (
	"context"
	"sort"
	"strings"
	"sync"

	id "strive/pkg/domain"
	"strive/pkg/platform/sentinel"
)

// InMemoryStore keeps requests and friendship edges in maps guarded by one
// RWMutex. Friendship keys are canonicalized so (a,b) and (b,a) hit the
// same entry.
type InMemoryStore struct {
	mu       sync.RWMutex
	requests map[requestKey]*Request
	edges    map[edgeKey]struct{}
}

type requestKey struct {
	from id.UserID
	to   id.UserID
}

type edgeKey struct {
	lo id.UserID
	hi id.UserID
}

func edge(a, b id.UserID) edgeKey {
	if strings.Compare(a.String(), b.String()) > 0 {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		requests: make(map[requestKey]*Request),
		edges:    make(map[edgeKey]struct{}),
	}
}

func (s *InMemoryStore) CreateRequest(_ context.Context, request *Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	forward := requestKey{from: request.From, to: request.To}
	reverse := requestKey{from: request.To, to: request.From}
	if _, ok := s.requests[forward]; ok {
		return sentinel.ErrConflict
	}
	if _, ok := s.requests[reverse]; ok {
		return sentinel.ErrConflict
	}
	copied := *request
	s.requests[forward] = &copied
	return nil
}

func (s *InMemoryStore) FindRequest(_ context.Context, from, to id.UserID) (*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	request, ok := s.requests[requestKey{from: from, to: to}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *request
	return &copied, nil
}

func (s *InMemoryStore) DeleteRequest(_ context.Context, from, to id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := requestKey{from: from, to: to}
	if _, ok := s.requests[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.requests, key)
	return nil
}

func (s *InMemoryStore) ListRequestsInvolving(_ context.Context, user id.UserID) ([]*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Request
	for _, request := range s.requests {
		if request.From == user || request.To == user {
			copied := *request
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) CreateFriendship(_ context.Context, a, b id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := edge(a, b)
	if _, ok := s.edges[key]; ok {
		return sentinel.ErrConflict
	}
	s.edges[key] = struct{}{}
	return nil
}

func (s *InMemoryStore) DeleteFriendship(_ context.Context, a, b id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := edge(a, b)
	if _, ok := s.edges[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.edges, key)
	return nil
}

func (s *InMemoryStore) AreFriends(_ context.Context, a, b id.UserID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.edges[edge(a, b)]
	return ok, nil
}

func (s *InMemoryStore) ListFriends(_ context.Context, user id.UserID) ([]id.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []id.UserID
	for key := range s.edges {
		switch user {
		case key.lo:
			out = append(out, key.hi)
		case key.hi:
			out = append(out, key.lo)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out, nil
}
