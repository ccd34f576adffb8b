package models

// Status is the goal lifecycle state. A single status column replaces the
// old split into separate open/achieved collections, so the transition is
// one conditional update instead of a cross-store move.
type Status string

const (
	StatusOpen     Status = "open"
	StatusAchieved Status = "achieved"
)

// CanTransitionTo enforces the one-way lifecycle: open goals may become
// achieved; achieved is terminal.
func (s Status) CanTransitionTo(target Status) bool {
	return s == StatusOpen && target == StatusAchieved
}

func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusAchieved
}
