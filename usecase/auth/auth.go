// Package auth issues and verifies the bearer tokens that resolve a caller's identity.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/taskchat/domain"
	"github.com/fastygo/taskchat/repository"
)

// Claims carried by every token. SessionID is empty for tokens minted elsewhere
// without a session.
type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// Token is returned by Login and Refresh.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	UserID      string    `json:"user_id"`
	SessionID   string    `json:"session_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	secret   []byte
	issuer   string
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// New builds the auth use case. sessions may be nil, in which case tokens are
// verified by signature and expiry only and cannot be revoked.
func New(users repository.UserRepository, sessions repository.SessionRepository, cfg Config, logger *zap.Logger) *UseCase {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		ttl:      cfg.TTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Login opens a session for userID and signs a token for it. The user record is
// created when missing.
func (uc *UseCase) Login(ctx context.Context, userID string, ttl time.Duration) (*Token, error) {
	if userID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if ttl <= 0 {
		ttl = uc.ttl
	}
	if _, err := uc.users.Ensure(ctx, domain.NewUser(userID)); err != nil {
		return nil, err
	}

	now := uc.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if uc.sessions != nil {
		if err := uc.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}

	uc.logger.Info("session opened", zap.String("user_id", userID), zap.String("session_id", session.ID))
	return uc.sign(session)
}

// Refresh extends the session behind claims and signs a new token for it.
func (uc *UseCase) Refresh(ctx context.Context, claims *Claims, ttl time.Duration) (*Token, error) {
	if claims == nil || claims.SessionID == "" {
		return nil, domain.ErrSessionNotFound
	}
	if ttl <= 0 {
		ttl = uc.ttl
	}

	session := &domain.Session{ID: claims.SessionID, UserID: claims.UserID, CreatedAt: uc.now()}
	if uc.sessions != nil {
		stored, err := uc.session(ctx, claims)
		if err != nil {
			return nil, err
		}
		if err := uc.sessions.Extend(ctx, stored.ID, ttl); err != nil {
			return nil, err
		}
		session = stored
	}
	session.ExpiresAt = uc.now().Add(ttl)
	return uc.sign(session)
}

// Logout revokes the session behind claims. Without a session store it is a no-op.
func (uc *UseCase) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.SessionID == "" || uc.sessions == nil {
		return nil
	}
	uc.logger.Info("session revoked", zap.String("user_id", claims.UserID), zap.String("session_id", claims.SessionID))
	return uc.sessions.Delete(ctx, claims.SessionID)
}

// Authenticate verifies a raw bearer token and, when sessions are tracked,
// that its session is still open.
func (uc *UseCase) Authenticate(ctx context.Context, raw string) (*Claims, error) {
	claims, err := uc.Parse(raw)
	if err != nil {
		return nil, err
	}
	if uc.sessions != nil && claims.SessionID != "" {
		if _, err := uc.session(ctx, claims); err != nil {
			return nil, domain.WrapError(domain.ErrCodeUnauthorized, "session revoked", err)
		}
	}
	return claims, nil
}

// Parse checks signature, algorithm, expiry and issuer. A token without a
// user_id claim is rejected.
func (uc *UseCase) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return uc.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.WrapError(domain.ErrCodeUnauthorized, "invalid token", err)
	}
	if uc.issuer != "" && !claims.VerifyIssuer(uc.issuer, true) {
		return nil, domain.NewError(domain.ErrCodeUnauthorized, "invalid token issuer")
	}
	if claims.UserID == "" {
		return nil, domain.NewError(domain.ErrCodeUnauthorized, "token has no user_id")
	}
	return claims, nil
}

func (uc *UseCase) session(ctx context.Context, claims *Claims) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, domain.ErrSessionNotFound
	}
	if session.IsExpired(uc.now()) {
		_ = uc.sessions.Delete(ctx, session.ID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *UseCase) sign(session *domain.Session) (*Token, error) {
	claims := Claims{
		UserID:    session.UserID,
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    uc.issuer,
			Subject:   session.UserID,
			IssuedAt:  jwt.NewNumericDate(uc.now()),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.secret)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "token signing failed", err)
	}
	return &Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		UserID:      session.UserID,
		SessionID:   session.ID,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}
