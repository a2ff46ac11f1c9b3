package middleware

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskchat/api/transport"
	"github.com/fastygo/taskchat/domain"
	"github.com/fastygo/taskchat/pkg/httpcontext"
	authUC "github.com/fastygo/taskchat/usecase/auth"
)

const claimsKey = "auth.claims"

// Authenticator resolves a raw bearer token into verified claims.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*authUC.Claims, error)
}

// JWTAuth rejects requests without a valid bearer token. On success the
// resolved user id replaces any client supplied X-User-ID header.
func JWTAuth(auth Authenticator, adapter *httpcontext.Adapter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Request.Header.Del(httpcontext.HeaderUserID)

			tokenString := extractToken(ctx)
			if tokenString == "" {
				unauthorized(ctx, "missing bearer token")
				return
			}

			stdCtx, cancel := attach(ctx, adapter)
			claims, err := auth.Authenticate(stdCtx, tokenString)
			cancel()
			if err != nil {
				logger.Warn("invalid jwt token", zap.Error(err))
				unauthorized(ctx, "invalid token")
				return
			}

			ctx.Request.Header.Set(httpcontext.HeaderUserID, claims.UserID)
			ctx.SetUserValue(claimsKey, claims)
			next(ctx)
		}
	}
}

// Claims returns the verified claims of the current request, or nil.
func Claims(ctx *fasthttp.RequestCtx) *authUC.Claims {
	claims, _ := ctx.UserValue(claimsKey).(*authUC.Claims)
	return claims
}

func attach(ctx *fasthttp.RequestCtx, adapter *httpcontext.Adapter) (context.Context, context.CancelFunc) {
	if adapter != nil {
		return adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func unauthorized(ctx *fasthttp.RequestCtx, message string) {
	body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeUnauthorized), message, nil))
	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.Header.Set("WWW-Authenticate", "Bearer")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.SetBody(body)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
