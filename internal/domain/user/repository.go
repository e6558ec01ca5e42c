package user

import "context"

type Repository interface {
	Create(ctx context.Context, user *User) error
	// GetActiveByEmail only returns users whose status is active
	GetActiveByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
