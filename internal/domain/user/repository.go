package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, userID string) (*User, error)
	Create(ctx context.Context, user *User) error
}
