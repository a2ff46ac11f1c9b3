package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskchat/api/transport"
	"github.com/fastygo/taskchat/domain"
	"github.com/fastygo/taskchat/pkg/httpcontext"
	appLogger "github.com/fastygo/taskchat/pkg/logger"
)

// Authorizer checks a resolved identity against the owner named in the path.
type Authorizer interface {
	Authorize(ctx context.Context, identity, owner string) error
}

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	status, code := mapError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		appLogger.WithRequestID(stdCtx, h.logger).Error("request failed",
			zap.String("path", string(ctx.Path())),
			zap.Error(err),
		)
		message = "internal error"
	}
	h.respondJSON(ctx, status, transport.NewError(code, message, nil))
}

func (h baseHandler) respondBadRequest(ctx *fasthttp.RequestCtx, message string) {
	h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), message, nil))
}

// decode parses the JSON body into v, answering 400 when it is malformed.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, v interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		h.respondBadRequest(ctx, "invalid payload")
		return false
	}
	return true
}

// owner returns the {user_id} path segment once guard has accepted the caller for it.
func (h baseHandler) owner(ctx *fasthttp.RequestCtx, stdCtx context.Context, guard Authorizer) (string, bool) {
	owner := httpcontext.PathParam(ctx, "user_id")
	if err := guard.Authorize(stdCtx, httpcontext.Identity(ctx), owner); err != nil {
		h.respondError(ctx, stdCtx, err)
		return "", false
	}
	return owner, true
}

func (h baseHandler) int64Param(ctx *fasthttp.RequestCtx, stdCtx context.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(httpcontext.PathParam(ctx, name), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(ctx, stdCtx, domain.NewError(domain.ErrCodeInvalid, "invalid "+name))
		return 0, false
	}
	return id, true
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusUnprocessableEntity, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
