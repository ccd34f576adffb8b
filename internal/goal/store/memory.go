package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"strive/internal/goal/models"
	id "strive/pkg/domain"
	"strive/pkg/platform/sentinel"
)

// InMemory keeps goals in a map guarded by a RWMutex. Progress addition and
// the achieved transition happen under the write lock, so the conditional
// update is atomic here just as it is in the postgres store.
type InMemory struct {
	mu    sync.RWMutex
	goals map[id.GoalID]*models.Goal
}

func NewInMemory() *InMemory {
	return &InMemory{goals: make(map[id.GoalID]*models.Goal)}
}

func (s *InMemory) Create(_ context.Context, goal *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.goals[goal.ID]; exists {
		return sentinel.ErrConflict
	}
	s.goals[goal.ID] = clone(goal)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, goalID id.GoalID) (*models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	goal, ok := s.goals[goalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(goal), nil
}

func (s *InMemory) ListByStatus(_ context.Context, status models.Status) ([]*models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Goal
	for _, goal := range s.goals {
		if goal.Status == status {
			out = append(out, clone(goal))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemory) ListByOwner(_ context.Context, owner models.Owner, status models.Status) ([]*models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Goal
	for _, goal := range s.goals {
		if goal.Owner == owner && goal.Status == status {
			out = append(out, clone(goal))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemory) Update(_ context.Context, goal *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.goals[goal.ID]
	if !ok || !current.IsOpen() {
		return sentinel.ErrNotFound
	}
	s.goals[goal.ID] = clone(goal)
	return nil
}

func (s *InMemory) AddProgress(_ context.Context, goalID id.GoalID, delta float64, now time.Time) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[goalID]
	if !ok || !goal.IsOpen() {
		return nil, sentinel.ErrNotFound
	}
	goal.ApplyProgress(delta, now)
	return clone(goal), nil
}

func (s *InMemory) Delete(_ context.Context, goalID id.GoalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[goalID]
	if !ok || !goal.IsOpen() {
		return sentinel.ErrNotFound
	}
	delete(s.goals, goalID)
	return nil
}

func sortNewestFirst(goals []*models.Goal) {
	sort.Slice(goals, func(i, j int) bool {
		return goals[i].CreatedAt.After(goals[j].CreatedAt)
	})
}

func clone(goal *models.Goal) *models.Goal {
	copied := *goal
	if goal.AchievedAt != nil {
		at := *goal.AchievedAt
		copied.AchievedAt = &at
	}
	return &copied
}
