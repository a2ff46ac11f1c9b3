package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fastygo/taskchat/domain"
)

type userRepository struct {
	db *sql.DB
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowContext(ctx, `SELECT id, email, created_at FROM users WHERE id = ?`, id).
		Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	email := user.Email
	if email == "" {
		email = domain.DefaultEmail(user.ID)
	}
	if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO users (id, email) VALUES (?, ?)`, user.ID, email); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, user.ID)
}
