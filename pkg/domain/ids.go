package domain

import (
	"github.com/google/uuid"

	dErrors "strive/pkg/domain-errors"
)

// Typed IDs keep cross-concept references from being mixed up at compile
// time. Concepts never hold pointers into each other's records; they store
// these IDs and resolve them with a fresh read at use time.
type (
	UserID       uuid.UUID
	GoalID       uuid.UUID
	CommunityID  uuid.UUID
	PostID       uuid.UUID
	CommentID    uuid.UUID
	CollectionID uuid.UUID
)

func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id GoalID) String() string       { return uuid.UUID(id).String() }
func (id CommunityID) String() string  { return uuid.UUID(id).String() }
func (id PostID) String() string       { return uuid.UUID(id).String() }
func (id CommentID) String() string    { return uuid.UUID(id).String() }
func (id CollectionID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id GoalID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id CommunityID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id PostID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id CommentID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id CollectionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// parse enforces the shared invariant: IDs must be valid, non-nil UUIDs.
func parse(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "id must not be empty")
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "id must not be the nil UUID")
	}
	return u, nil
}

func ParseUserID(raw string) (UserID, error) {
	u, err := parse(raw)
	return UserID(u), err
}

func ParseGoalID(raw string) (GoalID, error) {
	u, err := parse(raw)
	return GoalID(u), err
}

func ParseCommunityID(raw string) (CommunityID, error) {
	u, err := parse(raw)
	return CommunityID(u), err
}

func ParsePostID(raw string) (PostID, error) {
	u, err := parse(raw)
	return PostID(u), err
}

func ParseCommentID(raw string) (CommentID, error) {
	u, err := parse(raw)
	return CommentID(u), err
}

func ParseCollectionID(raw string) (CollectionID, error) {
	u, err := parse(raw)
	return CollectionID(u), err
}

func NewUserID() UserID             { return UserID(uuid.New()) }
func NewGoalID() GoalID             { return GoalID(uuid.New()) }
func NewCommunityID() CommunityID   { return CommunityID(uuid.New()) }
func NewPostID() PostID             { return PostID(uuid.New()) }
func NewCommentID() CommentID       { return CommentID(uuid.New()) }
func NewCollectionID() CollectionID { return CollectionID(uuid.New()) }
