package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"strive/internal/activity"
	"strive/internal/goal/models"
	"strive/internal/platform/metrics"
	"strive/internal/platform/middleware"
	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
	"strive/pkg/platform/sentinel"
)

// Store is the persistence boundary for goals. Implementations return
// sentinel errors; this service translates them into the domain taxonomy.
type Store interface {
	Create(ctx context.Context, goal *models.Goal) error
	FindByID(ctx context.Context, goalID id.GoalID) (*models.Goal, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Goal, error)
	ListByOwner(ctx context.Context, owner models.Owner, status models.Status) ([]*models.Goal, error)
	// Update persists field changes for an open goal. Returns ErrNotFound
	// when the goal is absent or no longer open.
	Update(ctx context.Context, goal *models.Goal) error
	// AddProgress atomically adds delta to an open goal's progress and takes
	// the open->achieved transition when the target is reached. Returns
	// ErrNotFound when the goal is absent or no longer open.
	AddProgress(ctx context.Context, goalID id.GoalID, delta float64, now time.Time) (*models.Goal, error)
	// Delete removes an open goal. Returns ErrNotFound when the goal is
	// absent or no longer open.
	Delete(ctx context.Context, goalID id.GoalID) error
}

// ActivityPublisher receives domain events worth recording.
type ActivityPublisher interface {
	Emit(ctx context.Context, event activity.Event) error
}

// Service owns the goal lifecycle: creation, progress accumulation, the
// one-way open->achieved transition, and owner assertions.
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

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a new open goal with zero progress.
func (s *Service) Create(ctx context.Context, owner models.Owner, name, unit string, amount float64, targetDate time.Time) (*models.Goal, error) {
	goal, err := models.NewGoal(id.NewGoalID(), owner, name, unit, amount, targetDate, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, goal); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create goal")
	}
	if s.metrics != nil {
		s.metrics.GoalsCreated.Inc()
	}
	s.emit(ctx, activity.Event{Action: activity.ActionGoalCreated, Object: goal.ID.String()})
	return goal, nil
}

// ListOpen returns all open goals, most recently created first.
func (s *Service) ListOpen(ctx context.Context) ([]*models.Goal, error) {
	return s.list(ctx, models.StatusOpen)
}

// ListAchieved returns all achieved goals, most recently created first.
func (s *Service) ListAchieved(ctx context.Context) ([]*models.Goal, error) {
	return s.list(ctx, models.StatusAchieved)
}

func (s *Service) list(ctx context.Context, status models.Status) ([]*models.Goal, error) {
	goals, err := s.store.ListByStatus(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list goals")
	}
	return goals, nil
}

func (s *Service) ListOpenByOwner(ctx context.Context, owner models.Owner) ([]*models.Goal, error) {
	return s.listByOwner(ctx, owner, models.StatusOpen)
}

func (s *Service) ListAchievedByOwner(ctx context.Context, owner models.Owner) ([]*models.Goal, error) {
	return s.listByOwner(ctx, owner, models.StatusAchieved)
}

func (s *Service) listByOwner(ctx context.Context, owner models.Owner, status models.Status) ([]*models.Goal, error) {
	goals, err := s.store.ListByOwner(ctx, owner, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list goals by owner")
	}
	return goals, nil
}

// Get returns a goal regardless of lifecycle state. One lookup suffices now
// that both states live in one store.
func (s *Service) Get(ctx context.Context, goalID id.GoalID) (*models.Goal, error) {
	goal, err := s.store.FindByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "goal not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load goal")
	}
	return goal, nil
}

// UpdateRequest carries optional field changes; nil fields are left alone.
type UpdateRequest struct {
	Name       *string    `json:"name"`
	Unit       *string    `json:"unit"`
	Amount     *float64   `json:"amount"`
	TargetDate *time.Time `json:"target_date"`
}

// Update modifies an open goal's fields. Achieved goals are immutable and
// rejected explicitly.
func (s *Service) Update(ctx context.Context, goalID id.GoalID, req UpdateRequest) (*models.Goal, error) {
	goal, err := s.requireOpen(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, dErrors.New(dErrors.CodeBadRequest, "goal name cannot be empty")
		}
		goal.Name = *req.Name
	}
	if req.Unit != nil {
		if *req.Unit == "" {
			return nil, dErrors.New(dErrors.CodeBadRequest, "goal unit cannot be empty")
		}
		goal.Unit = *req.Unit
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, dErrors.New(dErrors.CodeBadRequest, "goal amount must be positive")
		}
		goal.Amount = *req.Amount
	}
	if req.TargetDate != nil {
		goal.TargetDate = *req.TargetDate
	}

	if err := s.store.Update(ctx, goal); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Lost a race with the achieved transition.
			return nil, dErrors.New(dErrors.CodeNotAllowed, "goal is already achieved")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update goal")
	}
	return goal, nil
}

// AddProgress accumulates progress on an open goal. The delta must be
// positive: progress never decreases, and the achieved transition can only
// be reached by genuine accumulation.
func (s *Service) AddProgress(ctx context.Context, goalID id.GoalID, delta float64) (*models.Goal, error) {
	if delta <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "progress delta must be positive")
	}
	if _, err := s.requireOpen(ctx, goalID); err != nil {
		return nil, err
	}

	goal, err := s.store.AddProgress(ctx, goalID, delta, s.now())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotAllowed, "goal is already achieved")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add progress")
	}

	if goal.Status == models.StatusAchieved {
		if s.metrics != nil {
			s.metrics.GoalsAchieved.Inc()
		}
		s.emit(ctx, activity.Event{Action: activity.ActionGoalAchieved, Object: goal.ID.String()})
		if s.logger != nil {
			s.logger.InfoContext(ctx, "goal achieved",
				"goal_id", goal.ID.String(),
				"amount", goal.Amount,
			)
		}
	}
	return goal, nil
}

// Delete removes an open goal. There is no deletion path for achieved goals.
func (s *Service) Delete(ctx context.Context, goalID id.GoalID) error {
	if _, err := s.requireOpen(ctx, goalID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, goalID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotAllowed, "goal is already achieved")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete goal")
	}
	return nil
}

// AssertOwner is the precondition gate for user-goal mutations: the goal
// must exist, be open, and be owned by user.
func (s *Service) AssertOwner(ctx context.Context, goalID id.GoalID, user id.UserID) error {
	goal, err := s.requireOpen(ctx, goalID)
	if err != nil {
		return err
	}
	if goal.Owner != models.UserOwner(user) {
		return dErrors.New(dErrors.CodeNotAllowed, "user is not the owner of this goal")
	}
	return nil
}

// requireOpen loads a goal and rejects achieved ones explicitly, so callers
// get NotAllowed rather than a misleading NotFound for terminal goals.
func (s *Service) requireOpen(ctx context.Context, goalID id.GoalID) (*models.Goal, error) {
	goal, err := s.Get(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if !goal.IsOpen() {
		return nil, dErrors.New(dErrors.CodeNotAllowed, "goal is already achieved")
	}
	return goal, nil
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
