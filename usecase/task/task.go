// Package task is the single implementation of the task operations shared by
// the REST handlers, the chat router and the tool dispatcher.
package task

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/taskchat/domain"
	appLogger "github.com/fastygo/taskchat/pkg/logger"
	"github.com/fastygo/taskchat/repository"
	"github.com/fastygo/taskchat/usecase"
)

// Result statuses.
const (
	StatusCreated   = "created"
	StatusUpdated   = "updated"
	StatusCompleted = "completed"
	StatusDeleted   = "deleted"
	StatusOK        = "ok"
)

// Operation names reported to the recorder.
const (
	OpAdd    = "add"
	OpList   = "list"
	OpGet    = "get"
	OpUpdate = "update"
	OpToggle = "toggle"
	OpDelete = "delete"
)

// Result is the plain record every entry point renders.
type Result struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Status      string `json:"status"`
}

// CreateRequest holds the fields of a new task.
type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type UseCase struct {
	tasks    repository.TaskRepository
	users    repository.UserRepository
	recorder usecase.Recorder
	logger   *zap.Logger
}

func New(tasks repository.TaskRepository, users repository.UserRepository, recorder usecase.Recorder, logger *zap.Logger) *UseCase {
	if recorder == nil {
		recorder = usecase.NopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		users:    users,
		recorder: recorder,
		logger:   logger,
	}
}

// AddTask creates a task owned by owner, creating the user record on first use.
func (uc *UseCase) AddTask(ctx context.Context, owner string, req CreateRequest) (result *Result, err error) {
	defer uc.record(ctx, OpAdd, &err)

	if owner == "" {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, domain.ErrEmptyTitle
	}
	if uc.users != nil {
		if _, err := uc.users.Ensure(ctx, domain.NewUser(owner)); err != nil {
			return nil, storeFailure(err)
		}
	}

	created, err := uc.tasks.Create(ctx, &domain.Task{
		UserID:      owner,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return nil, storeFailure(err)
	}
	return toResult(created, StatusCreated), nil
}

// ListTasks returns owner's tasks in insertion order filtered by status.
func (uc *UseCase) ListTasks(ctx context.Context, owner string, status domain.TaskStatus) (results []Result, err error) {
	defer uc.record(ctx, OpList, &err)

	if owner == "" {
		return nil, domain.ErrUnauthorized
	}
	if status == "" {
		status = domain.TaskStatusAll
	}
	if _, err := domain.ParseTaskStatus(string(status)); err != nil {
		return nil, err
	}

	tasks, err := uc.tasks.List(ctx, owner, repository.TaskFilter{Status: status})
	if err != nil {
		return nil, storeFailure(err)
	}
	results = make([]Result, 0, len(tasks))
	for i := range tasks {
		results = append(results, *toResult(&tasks[i], StatusOK))
	}
	return results, nil
}

func (uc *UseCase) GetTask(ctx context.Context, owner string, id int64) (result *Result, err error) {
	defer uc.record(ctx, OpGet, &err)

	if owner == "" {
		return nil, domain.ErrUnauthorized
	}
	found, err := uc.tasks.Get(ctx, owner, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	return toResult(found, StatusOK), nil
}

// UpdateTask applies the present fields of patch. An empty patch changes nothing.
func (uc *UseCase) UpdateTask(ctx context.Context, owner string, id int64, patch domain.TaskPatch) (result *Result, err error) {
	defer uc.record(ctx, OpUpdate, &err)

	if owner == "" {
		return nil, domain.ErrUnauthorized
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.ErrEmptyTitle
	}

	var updated *domain.Task
	if patch.IsEmpty() {
		updated, err = uc.tasks.Get(ctx, owner, id)
	} else {
		updated, err = uc.tasks.Update(ctx, owner, id, patch)
	}
	if err != nil {
		return nil, storeFailure(err)
	}

	status := StatusUpdated
	if patch.Completed != nil && *patch.Completed {
		status = StatusCompleted
	}
	return toResult(updated, status), nil
}

// ToggleTask flips the completed flag.
func (uc *UseCase) ToggleTask(ctx context.Context, owner string, id int64) (result *Result, err error) {
	defer uc.record(ctx, OpToggle, &err)

	if owner == "" {
		return nil, domain.ErrUnauthorized
	}
	toggled, err := uc.tasks.Toggle(ctx, owner, id)
	if err != nil {
		return nil, storeFailure(err)
	}

	status := StatusUpdated
	if toggled.Completed {
		status = StatusCompleted
	}
	return toResult(toggled, status), nil
}

// DeleteTask removes the task and returns its last state.
func (uc *UseCase) DeleteTask(ctx context.Context, owner string, id int64) (result *Result, err error) {
	defer uc.record(ctx, OpDelete, &err)

	if owner == "" {
		return nil, domain.ErrUnauthorized
	}
	deleted, err := uc.tasks.Delete(ctx, owner, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	return toResult(deleted, StatusDeleted), nil
}

func (uc *UseCase) record(ctx context.Context, operation string, errp *error) {
	outcome := "success"
	if err := *errp; err != nil {
		code := domain.CodeOf(err)
		outcome = strings.ToLower(string(code))
		if code == domain.ErrCodeInternal {
			appLogger.WithRequestID(ctx, uc.logger).Error("task operation failed",
				zap.String("operation", operation),
				zap.Error(err),
			)
		}
	}
	uc.recorder.RecordTaskOperation(operation, outcome)
}

// storeFailure keeps classified errors and wraps anything else as INTERNAL.
func storeFailure(err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.WrapError(domain.ErrCodeInternal, "store failure", err)
}

func toResult(t *domain.Task, status string) *Result {
	return &Result{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Status:      status,
	}
}
