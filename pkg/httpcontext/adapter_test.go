package httpcontext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/taskchat/pkg/logger"
)

func TestAttach(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("X-Request-ID", "req-42")
	ctx.Request.Header.Set(HeaderUserID, "u1")
	ctx.Request.Header.SetUserAgent("tests")

	stdCtx, cancel := NewAdapter(time.Second).Attach(&ctx)
	defer cancel()

	deadline, ok := stdCtx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
	assert.Equal(t, "req-42", appLogger.RequestID(stdCtx))
	assert.Equal(t, "req-42", string(ctx.Response.Header.Peek("X-Request-ID")))
	assert.Equal(t, "u1", stdCtx.Value(KeyUserID))
	assert.Equal(t, "tests", stdCtx.Value(KeyUserAgent))
}

func TestAttach_GeneratesRequestID(t *testing.T) {
	var ctx fasthttp.RequestCtx
	stdCtx, cancel := NewAdapter(0).Attach(&ctx)
	defer cancel()

	assert.NotEmpty(t, appLogger.RequestID(stdCtx))
	assert.Nil(t, stdCtx.Value(KeyUserID))
}

func TestPathParam(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.SetUserValue("id", "7")
	ctx.SetUserValue("n", 7)

	assert.Equal(t, "7", PathParam(&ctx, "id"))
	assert.Equal(t, "", PathParam(&ctx, "n"))
	assert.Equal(t, "", PathParam(&ctx, "missing"))
}
