package collection

import (
	"time"

	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
)

// Collection is a named set of post references. A nil Owner marks the
// global library, which any authenticated user may curate; owned
// collections can only be changed by their owner.
type Collection struct {
	ID          id.CollectionID `json:"id"`
	Owner       *id.UserID      `json:"owner,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Posts       []id.PostID     `json:"posts"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsGlobal reports whether this is the unowned global library.
func (c *Collection) IsGlobal() bool {
	return c.Owner == nil
}

func (c *Collection) HasPost(post id.PostID) bool {
	for _, linked := range c.Posts {
		if linked == post {
			return true
		}
	}
	return false
}

func New(collectionID id.CollectionID, owner *id.UserID, name, description string, now time.Time) (*Collection, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "collection name cannot be empty")
	}
	if owner != nil && owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "collection owner must not be the nil id")
	}
	return &Collection{
		ID:          collectionID,
		Owner:       owner,
		Name:        name,
		Description: description,
		Posts:       []id.PostID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
