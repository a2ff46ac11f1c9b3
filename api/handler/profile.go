package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskchat/pkg/httpcontext"
	profileUC "github.com/fastygo/taskchat/usecase/profile"
)

type ProfileHandler struct {
	baseHandler
	uc    *profileUC.UseCase
	guard Authorizer
}

func NewProfileHandler(uc *profileUC.UseCase, guard Authorizer, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		guard:       guard,
	}
}

// @Summary Get profile
// @Tags profile
// @Success 200 {object} transport.Envelope
// @Router /api/{user_id}/profile [get]
func (h *ProfileHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	owner, ok := h.owner(ctx, stdCtx, h.guard)
	if !ok {
		return
	}

	profile, err := h.uc.GetProfile(stdCtx, owner)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, profile)
}
