package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskchat/api/transport"
	"github.com/fastygo/taskchat/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrEmptyTitle, http.StatusUnprocessableEntity, "INVALID"},
		{domain.ErrTaskNotFound, http.StatusNotFound, "NOT_FOUND"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := mapError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	h := newBaseHandler(nil, nil)
	var ctx fasthttp.RequestCtx

	h.respondError(&ctx, context.Background(), errors.New("pq: relation tasks does not exist"))

	assert.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())
	var env transport.Envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "internal error", env.Error)
}

func TestDecode_RejectsMalformedBody(t *testing.T) {
	h := newBaseHandler(nil, nil)
	var ctx fasthttp.RequestCtx
	ctx.Request.SetBodyString("{not json")

	var v transport.TaskCreateRequest
	assert.False(t, h.decode(&ctx, &v))
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}
