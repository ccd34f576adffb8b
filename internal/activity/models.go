package activity

import (
	"time"

	id "strive/pkg/domain"
)

// Action names a recorded platform event.
type Action string

const (
	ActionUserRegistered  Action = "user_registered"
	ActionUserLoggedIn    Action = "user_logged_in"
	ActionGoalCreated     Action = "goal_created"
	ActionGoalAchieved    Action = "goal_achieved"
	ActionCommunityMade   Action = "community_created"
	ActionMemberJoined    Action = "member_joined"
	ActionMemberLeft      Action = "member_left"
	ActionPostPublished   Action = "post_published"
	ActionPostDeleted     Action = "post_deleted"
	ActionCommentWritten  Action = "comment_written"
	ActionFriendsAccepted Action = "friends_accepted"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Actor     id.UserID
	Action    Action
	Object    string
	Device    string
}
