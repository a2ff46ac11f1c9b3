package tools

import (
	"context"

	"github.com/fastygo/taskchat/domain"
	taskUC "github.com/fastygo/taskchat/usecase/task"
)

// TaskOperations is the part of the task use case the tools call.
type TaskOperations interface {
	AddTask(ctx context.Context, owner string, req taskUC.CreateRequest) (*taskUC.Result, error)
	ListTasks(ctx context.Context, owner string, status domain.TaskStatus) ([]taskUC.Result, error)
	UpdateTask(ctx context.Context, owner string, id int64, patch domain.TaskPatch) (*taskUC.Result, error)
	DeleteTask(ctx context.Context, owner string, id int64) (*taskUC.Result, error)
}

type AddTaskArgs struct {
	UserID      string `json:"user_id" jsonschema:"required" jsonschema_description:"The user ID"`
	Title       string `json:"title" jsonschema:"required" jsonschema_description:"Task title"`
	Description string `json:"description,omitempty" jsonschema_description:"Task description (optional)"`
}

type ListTasksArgs struct {
	UserID string `json:"user_id" jsonschema:"required" jsonschema_description:"The user ID"`
	Status string `json:"status,omitempty" jsonschema:"enum=all,enum=pending,enum=completed,default=all"`
}

type CompleteTaskArgs struct {
	UserID string `json:"user_id" jsonschema:"required" jsonschema_description:"The user ID"`
	TaskID int64  `json:"task_id" jsonschema:"required" jsonschema_description:"The task ID to complete"`
}

type DeleteTaskArgs struct {
	UserID string `json:"user_id" jsonschema:"required" jsonschema_description:"The user ID"`
	TaskID int64  `json:"task_id" jsonschema:"required" jsonschema_description:"The task ID to delete"`
}

type UpdateTaskArgs struct {
	UserID      string  `json:"user_id" jsonschema:"required" jsonschema_description:"The user ID"`
	TaskID      int64   `json:"task_id" jsonschema:"required" jsonschema_description:"The task ID to update"`
	Title       *string `json:"title,omitempty" jsonschema_description:"New title (optional)"`
	Description *string `json:"description,omitempty" jsonschema_description:"New description (optional)"`
	Completed   *bool   `json:"completed,omitempty" jsonschema_description:"New completion state (optional)"`
}

// RegisterTaskTools installs add_task, list_tasks, complete_task, delete_task
// and update_task, in that order.
func RegisterTaskTools(d *Dispatcher, tasks TaskOperations) {
	Register(d, "add_task", "Create a new task",
		func(ctx context.Context, owner string, args AddTaskArgs) (interface{}, error) {
			return tasks.AddTask(ctx, owner, taskUC.CreateRequest{Title: args.Title, Description: args.Description})
		})

	Register(d, "list_tasks", "Retrieve tasks from the list",
		func(ctx context.Context, owner string, args ListTasksArgs) (interface{}, error) {
			status, err := domain.ParseTaskStatus(args.Status)
			if err != nil {
				return nil, err
			}
			return tasks.ListTasks(ctx, owner, status)
		})

	Register(d, "complete_task", "Mark a task as complete",
		func(ctx context.Context, owner string, args CompleteTaskArgs) (interface{}, error) {
			done := true
			return tasks.UpdateTask(ctx, owner, args.TaskID, domain.TaskPatch{Completed: &done})
		})

	Register(d, "delete_task", "Remove a task from the list",
		func(ctx context.Context, owner string, args DeleteTaskArgs) (interface{}, error) {
			return tasks.DeleteTask(ctx, owner, args.TaskID)
		})

	Register(d, "update_task", "Modify task title, description or completion",
		func(ctx context.Context, owner string, args UpdateTaskArgs) (interface{}, error) {
			return tasks.UpdateTask(ctx, owner, args.TaskID, domain.TaskPatch{
				Title:       args.Title,
				Description: args.Description,
				Completed:   args.Completed,
			})
		})
}
