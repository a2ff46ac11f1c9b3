package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskchat/api/transport"
	"github.com/fastygo/taskchat/domain"
	"github.com/fastygo/taskchat/pkg/httpcontext"
	taskUC "github.com/fastygo/taskchat/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc    *taskUC.UseCase
	guard Authorizer
}

func NewTaskHandler(uc *taskUC.UseCase, guard Authorizer, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		guard:       guard,
	}
}

// @Summary List tasks
// @Tags tasks
// @Param status query string false "all, pending or completed"
// @Router /api/{user_id}/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	owner, ok := h.owner(ctx, stdCtx, h.guard)
	if !ok {
		return
	}

	status, err := domain.ParseTaskStatus(string(ctx.QueryArgs().Peek("status")))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	tasks, err := h.uc.ListTasks(stdCtx, owner, status)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(tasks, transport.ListMeta{Count: len(tasks), Filter: string(status)}))
}

// @Summary Create task
// @Tags tasks
// @Router /api/{user_id}/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	owner, ok := h.owner(ctx, stdCtx, h.guard)
	if !ok {
		return
	}

	var req transport.TaskCreateRequest
	if !h.decode(ctx, &req) {
		return
	}

	created, err := h.uc.AddTask(stdCtx, owner, taskUC.CreateRequest{Title: req.Title, Description: req.Description})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Get task
// @Tags tasks
// @Router /api/{user_id}/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
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

	task, err := h.uc.GetTask(stdCtx, owner, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Update task
// @Tags tasks
// @Router /api/{user_id}/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
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

	var req transport.TaskUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}

	updated, err := h.uc.UpdateTask(stdCtx, owner, id, domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Toggle task completion
// @Tags tasks
// @Router /api/{user_id}/tasks/{id}/complete [patch]
func (h *TaskHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
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

	toggled, err := h.uc.ToggleTask(stdCtx, owner, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, toggled)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/{user_id}/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
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

	deleted, err := h.uc.DeleteTask(stdCtx, owner, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.DeleteResponse{OK: true, Task: deleted})
}
