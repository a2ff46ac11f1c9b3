package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskchat/domain"
	"github.com/fastygo/taskchat/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
		SELECT id, email, created_at
		FROM users
		WHERE id = $1
	`
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Ensure(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil || user.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if user.Email == "" {
		user.Email = domain.DefaultEmail(user.ID)
	}

	// The no-op DO UPDATE makes RETURNING yield the existing row on conflict.
	const query = `
	INSERT INTO users (id, email)
	VALUES ($1, $2)
	ON CONFLICT (id) DO UPDATE
	SET id = EXCLUDED.id
	RETURNING id, email, created_at
	`

	var stored domain.User
	if err := r.pool.QueryRow(ctx, query, user.ID, user.Email).Scan(&stored.ID, &stored.Email, &stored.CreatedAt); err != nil {
		return nil, err
	}
	return &stored, nil
}
