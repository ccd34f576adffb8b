package domain

import "github.com/google/uuid"

// Text marshaling so typed IDs encode as canonical UUID strings in JSON
// payloads instead of raw byte arrays.

func (id UserID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id GoalID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id CommunityID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id PostID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id CommentID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id CollectionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = UserID(u)
	return nil
}

func (id *GoalID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = GoalID(u)
	return nil
}

func (id *CommunityID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = CommunityID(u)
	return nil
}

func (id *PostID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = PostID(u)
	return nil
}

func (id *CommentID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = CommentID(u)
	return nil
}

func (id *CollectionID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = CollectionID(u)
	return nil
}
