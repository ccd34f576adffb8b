package models

import (
	"time"

	"github.com/google/uuid"

	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
)

// OwnerKind discriminates who a goal belongs to. A goal is owned by a user
// or a community, never both.
type OwnerKind string

const (
	OwnerUser      OwnerKind = "user"
	OwnerCommunity OwnerKind = "community"
)

// Owner is a tagged reference to the goal's owner. The referenced record
// lives in its own concept's store; it is resolved by a fresh read at use
// time, never cached here.
type Owner struct {
	Kind OwnerKind `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

func UserOwner(userID id.UserID) Owner {
	return Owner{Kind: OwnerUser, ID: uuid.UUID(userID)}
}

func CommunityOwner(communityID id.CommunityID) Owner {
	return Owner{Kind: OwnerCommunity, ID: uuid.UUID(communityID)}
}

// Goal is the aggregate root for a measurable target.
//
// Invariants:
//   - Amount > 0
//   - Progress >= 0
//   - Status is open or achieved; the only transition is open -> achieved,
//     taken the instant Progress >= Amount
//   - Achieved goals are immutable: no progress, field updates, or deletion
type Goal struct {
	ID         id.GoalID  `json:"id"`
	Owner      Owner      `json:"owner"`
	Name       string     `json:"name"`
	Unit       string     `json:"unit"`
	Amount     float64    `json:"amount"`
	Progress   float64    `json:"progress"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	TargetDate time.Time  `json:"target_date"`
	AchievedAt *time.Time `json:"achieved_at,omitempty"`
}

func (g *Goal) IsOpen() bool {
	return g.Status == StatusOpen
}

// Achieved reports whether the accumulated progress has reached the target.
func (g *Goal) AchievedTarget() bool {
	return g.Progress >= g.Amount
}

// ApplyProgress adds delta and takes the lifecycle transition when the
// target is reached. Callers must have verified the goal is open.
func (g *Goal) ApplyProgress(delta float64, now time.Time) {
	g.Progress += delta
	if g.AchievedTarget() && g.Status.CanTransitionTo(StatusAchieved) {
		g.Status = StatusAchieved
		g.AchievedAt = &now
	}
}

// NewGoal constructs an open goal with zero progress.
func NewGoal(goalID id.GoalID, owner Owner, name, unit string, amount float64, targetDate time.Time, now time.Time) (*Goal, error) {
	if owner.Kind != OwnerUser && owner.Kind != OwnerCommunity {
		return nil, dErrors.New(dErrors.CodeBadRequest, "goal owner must be a user or a community")
	}
	if owner.ID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "goal owner id is required")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "goal name cannot be empty")
	}
	if unit == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "goal unit cannot be empty")
	}
	if amount <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "goal amount must be positive")
	}
	return &Goal{
		ID:         goalID,
		Owner:      owner,
		Name:       name,
		Unit:       unit,
		Amount:     amount,
		Progress:   0,
		Status:     StatusOpen,
		CreatedAt:  now,
		TargetDate: targetDate,
	}, nil
}
