// Package access decides whether a resolved identity may act on an owner's records.
package access

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/taskchat/domain"
	appLogger "github.com/fastygo/taskchat/pkg/logger"
)

type Guard struct {
	logger *zap.Logger
}

func NewGuard(logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{logger: logger}
}

// Authorize permits the call only when identity and owner are both present and equal.
func (g *Guard) Authorize(ctx context.Context, identity, owner string) error {
	if identity != "" && identity == owner {
		return nil
	}
	appLogger.WithRequestID(ctx, g.logger).Warn("access denied",
		zap.String("identity", identity),
		zap.String("owner", owner),
	)
	return domain.ErrForbidden
}
