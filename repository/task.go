package repository

import (
	"context"

	"github.com/fastygo/taskchat/domain"
)

type TaskFilter struct {
	Status domain.TaskStatus
}

// TaskRepository persists tasks. Every read and write is scoped by owner; a task
// owned by someone else is reported as domain.ErrTaskNotFound.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Get(ctx context.Context, owner string, id int64) (*domain.Task, error)
	List(ctx context.Context, owner string, filter TaskFilter) ([]domain.Task, error)
	Update(ctx context.Context, owner string, id int64, patch domain.TaskPatch) (*domain.Task, error)
	Toggle(ctx context.Context, owner string, id int64) (*domain.Task, error)
	Delete(ctx context.Context, owner string, id int64) (*domain.Task, error)
}
