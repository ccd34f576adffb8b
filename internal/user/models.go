package user

import (
	"time"

	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 32
	minPasswordLength = 8
)

// User is an account. The password never leaves this package in any form
// but the bcrypt hash, and the hash never leaves over the wire.
type User struct {
	ID           id.UserID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func validateUsername(username string) error {
	if len(username) < minUsernameLength {
		return dErrors.New(dErrors.CodeBadRequest, "username must be at least 3 characters")
	}
	if len(username) > maxUsernameLength {
		return dErrors.New(dErrors.CodeBadRequest, "username must be 32 characters or less")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return dErrors.New(dErrors.CodeBadRequest, "password must be at least 8 characters")
	}
	return nil
}
