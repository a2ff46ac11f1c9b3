package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskchat/repository"
)

// NewStore wires every Postgres repository onto one pool.
func NewStore(pool *pgxpool.Pool) *repository.Store {
	return &repository.Store{
		Driver:        "postgres",
		Tasks:         NewTaskRepository(pool),
		Users:         NewUserRepository(pool),
		Conversations: NewConversationRepository(pool),
		Messages:      NewMessageRepository(pool),
		Ping: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
		Close: func() error {
			pool.Close()
			return nil
		},
	}
}
