package repository

import (
	"context"

	"github.com/fastygo/taskchat/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// Ensure inserts the user when absent and returns the stored record.
	Ensure(ctx context.Context, user *domain.User) (*domain.User, error)
}
