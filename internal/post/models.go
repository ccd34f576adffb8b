package post

import (
	"time"

	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
)

const maxContentLength = 10000

// Post is an authored piece of content. Community membership of the author
// is checked by the posting workflow at creation time, not stored here.
type Post struct {
	ID        id.PostID `json:"id"`
	Author    id.UserID `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New(postID id.PostID, author id.UserID, content string, now time.Time) (*Post, error) {
	if author.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "post author is required")
	}
	if content == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "post content cannot be empty")
	}
	if len(content) > maxContentLength {
		return nil, dErrors.New(dErrors.CodeBadRequest, "post content is too long")
	}
	return &Post{
		ID:        postID,
		Author:    author,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
