package models

import (
	"time"

	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
)

// Community is the aggregate root for a member-run group.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Members contains no duplicates and is non-empty after creation:
//     the creator is always the first member
//   - Every entry in Posts was added through the post-creation workflow;
//     the post's author was a member at creation time (not re-validated
//     later)
type Community struct {
	ID          id.CommunityID `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Members     []id.UserID    `json:"members"`
	Posts       []id.PostID    `json:"posts"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// HasMember reports whether user is currently in the member set.
func (c *Community) HasMember(user id.UserID) bool {
	for _, member := range c.Members {
		if member == user {
			return true
		}
	}
	return false
}

// HasPost reports whether post is currently linked.
func (c *Community) HasPost(post id.PostID) bool {
	for _, linked := range c.Posts {
		if linked == post {
			return true
		}
	}
	return false
}

// NewCommunity constructs a community whose only member is the creator and
// whose post set is empty.
func NewCommunity(communityID id.CommunityID, name, description string, creator id.UserID, now time.Time) (*Community, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "community name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "community name must be 128 characters or less")
	}
	if creator.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "community creator is required")
	}
	return &Community{
		ID:          communityID,
		Name:        name,
		Description: description,
		Members:     []id.UserID{creator},
		Posts:       []id.PostID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
