package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskchat/api/transport"
	"github.com/fastygo/taskchat/pkg/httpcontext"
	"github.com/fastygo/taskchat/usecase/tools"
)

// ToolsHandler exposes the tool dispatcher over plain JSON for agents that do
// not speak MCP.
type ToolsHandler struct {
	baseHandler
	dispatcher *tools.Dispatcher
}

func NewToolsHandler(dispatcher *tools.Dispatcher, adapter *httpcontext.Adapter, logger *zap.Logger) *ToolsHandler {
	return &ToolsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		dispatcher:  dispatcher,
	}
}

// @Summary List tool definitions
// @Tags tools
// @Router /api/v1/tools [get]
func (h *ToolsHandler) List(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.dispatcher.Definitions())
}

// @Summary Call a tool
// @Tags tools
// @Router /api/v1/tools/{name} [post]
func (h *ToolsHandler) Call(ctx *fasthttp.RequestCtx) {
	var req transport.ToolCallRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	env := h.dispatcher.Call(stdCtx, httpcontext.Identity(ctx), httpcontext.PathParam(ctx, "name"), req.Arguments)
	h.respondSuccess(ctx, http.StatusOK, env)
}
