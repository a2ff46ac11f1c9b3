package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskchat/api/transport"
	"github.com/fastygo/taskchat/pkg/httpcontext"
	chatUC "github.com/fastygo/taskchat/usecase/chat"
)

type ChatHandler struct {
	baseHandler
	uc    *chatUC.UseCase
	guard Authorizer
}

func NewChatHandler(uc *chatUC.UseCase, guard Authorizer, adapter *httpcontext.Adapter, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		guard:       guard,
	}
}

// @Summary Send a chat message
// @Tags chat
// @Router /api/{user_id}/chat [post]
func (h *ChatHandler) Chat(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	owner, ok := h.owner(ctx, stdCtx, h.guard)
	if !ok {
		return
	}

	var req transport.ChatRequest
	if !h.decode(ctx, &req) {
		return
	}

	resp, err := h.uc.Turn(stdCtx, owner, chatUC.TurnRequest{
		ConversationID: req.ConversationID,
		Message:        req.Message,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, resp)
}

// @Summary List the messages of a conversation
// @Tags chat
// @Router /api/{user_id}/conversations/{id}/messages [get]
func (h *ChatHandler) Messages(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	owner, ok := h.owner(ctx, stdCtx, h.guard)
	if !ok {
		return
	}
	id, ok := h.int64Param(ctx, stdCtx, "id")
	if !ok {
		return
	}

	messages, err := h.uc.Transcript(stdCtx, owner, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, messages)
}
