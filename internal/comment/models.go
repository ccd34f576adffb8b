package comment

import (
	"time"

	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
)

const maxContentLength = 5000

// Comment is authored content attached to a post. The target post's
// existence is checked by the commenting workflow at creation time; a later
// post deletion leaves the comment orphaned but readable.
type Comment struct {
	ID        id.CommentID `json:"id"`
	Author    id.UserID    `json:"author"`
	Target    id.PostID    `json:"target"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func New(commentID id.CommentID, author id.UserID, target id.PostID, content string, now time.Time) (*Comment, error) {
	if author.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "comment author is required")
	}
	if target.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "comment target is required")
	}
	if content == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "comment content cannot be empty")
	}
	if len(content) > maxContentLength {
		return nil, dErrors.New(dErrors.CodeBadRequest, "comment content is too long")
	}
	return &Comment{
		ID:        commentID,
		Author:    author,
		Target:    target,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
