package model

import (
	"context"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByCredentials(ctx context.Context, login, passwordHash string) (User, error)
	GetByToken(ctx context.Context, token string) (User, error)
	Save(ctx context.Context, user User) (User, error)
}

// User represents a stored account. AuthToken is the single session slot:
// empty means logged out, a non-empty value is unique across all users.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	AuthToken    string
}
