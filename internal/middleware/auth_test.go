package middleware

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskchat/pkg/httpcontext"
	"github.com/fastygo/taskchat/repository/bolt"
	authUC "github.com/fastygo/taskchat/usecase/auth"
)

func newAuth(t *testing.T) *authUC.UseCase {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return authUC.New(db.Store().Users, nil, authUC.Config{Secret: "s3cret", Issuer: "taskchat", TTL: time.Hour}, nil)
}

func TestJWTAuth(t *testing.T) {
	auth := newAuth(t)
	token, err := auth.Login(context.Background(), "u1", 0)
	require.NoError(t, err)

	var seenIdentity string
	var seenClaims *authUC.Claims
	handler := JWTAuth(auth, httpcontext.NewAdapter(time.Second), nil)(func(ctx *fasthttp.RequestCtx) {
		seenIdentity = httpcontext.Identity(ctx)
		seenClaims = Claims(ctx)
		ctx.SetStatusCode(fasthttp.StatusOK)
	})

	tests := []struct {
		name       string
		auth       string
		spoof      string
		wantStatus int
		wantUser   string
	}{
		{name: "valid bearer", auth: "Bearer " + token.AccessToken, wantStatus: fasthttp.StatusOK, wantUser: "u1"},
		{name: "spoofed header is replaced", auth: "Bearer " + token.AccessToken, spoof: "u2", wantStatus: fasthttp.StatusOK, wantUser: "u1"},
		{name: "raw token", auth: token.AccessToken, wantStatus: fasthttp.StatusOK, wantUser: "u1"},
		{name: "missing token", spoof: "u1", wantStatus: fasthttp.StatusUnauthorized},
		{name: "bad token", auth: "Bearer nope", spoof: "u1", wantStatus: fasthttp.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenIdentity, seenClaims = "", nil

			var ctx fasthttp.RequestCtx
			if tt.auth != "" {
				ctx.Request.Header.Set("Authorization", tt.auth)
			}
			if tt.spoof != "" {
				ctx.Request.Header.Set(httpcontext.HeaderUserID, tt.spoof)
			}
			handler(&ctx)

			assert.Equal(t, tt.wantStatus, ctx.Response.StatusCode())
			assert.Equal(t, tt.wantUser, seenIdentity)
			if tt.wantStatus == fasthttp.StatusOK {
				require.NotNil(t, seenClaims)
				assert.Equal(t, token.SessionID, seenClaims.SessionID)
			} else {
				assert.Nil(t, seenClaims)
				assert.Contains(t, string(ctx.Response.Body()), "UNAUTHORIZED")
			}
		})
	}
}
