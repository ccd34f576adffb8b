package friend

import (
	"time"

	id "strive/pkg/domain"
)

// RequestStatus tracks a friend request through its short lifecycle.
// Accepted and rejected requests are removed from the store; the status
// exists so callers see a consistent shape while a request is in flight.
type RequestStatus string

const (
	StatusPending RequestStatus = "pending"
)

// Request is a pending friendship offer from one user to another.
// Friendship itself is mutual and unordered; requests are directed.
type Request struct {
	From      id.UserID     `json:"from"`
	To        id.UserID     `json:"to"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}
