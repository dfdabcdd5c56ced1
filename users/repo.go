package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no user matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when a create collides with an existing email.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepo is the credential store.
type UserRepo interface {
	// Create persists a new user. The caller assigns the ID. Returns
	// ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *User) error
	// GetByEmail looks a user up by exact email. Returns ErrNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByID looks a user up by id. Returns ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*User, error)
}
