package user

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailInUse = errors.New("email already registered")
)

type Repository interface {
	Create(ctx context.Context, a Account) error
	GetByID(ctx context.Context, id string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
