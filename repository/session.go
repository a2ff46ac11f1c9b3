package repository

import (
	"context"
	"time"

	"github.com/fastygo/taskchat/domain"
)

// SessionRepository tracks issued bearer tokens; a token whose session is gone is revoked.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	Extend(ctx context.Context, id string, ttl time.Duration) error
}
