package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fastygo/taskchat/domain"
	"github.com/fastygo/taskchat/repository"
)

const taskColumns = `id, user_id, title, description, completed, created_at, updated_at`

type taskRepository struct {
	db *sql.DB
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.UserID == "" || strings.TrimSpace(task.Title) == "" {
		return nil, domain.ErrInvalidPayload
	}
	query := `
	INSERT INTO tasks (user_id, title, description, completed)
	VALUES (?, ?, ?, 0)
	RETURNING ` + taskColumns
	return scanTask(r.db.QueryRowContext(ctx, query, task.UserID, task.Title, task.Description))
}

func (r *taskRepository) Get(ctx context.Context, owner string, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND user_id = ?`
	return scanTask(r.db.QueryRowContext(ctx, query, id, owner))
}

func (r *taskRepository) List(ctx context.Context, owner string, filter repository.TaskFilter) ([]domain.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = ?
	  AND (? IS NULL OR completed = ?)
	ORDER BY id ASC`

	completed := completedFilter(filter.Status)
	rows, err := r.db.QueryContext(ctx, query, owner, completed, completed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, owner string, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	query := `
	UPDATE tasks
	SET title = COALESCE(?, title),
		description = COALESCE(?, description),
		completed = COALESCE(?, completed),
		updated_at = CURRENT_TIMESTAMP
	WHERE id = ? AND user_id = ?
	RETURNING ` + taskColumns
	return scanTask(r.db.QueryRowContext(ctx, query, patch.Title, patch.Description, patch.Completed, id, owner))
}

func (r *taskRepository) Toggle(ctx context.Context, owner string, id int64) (*domain.Task, error) {
	query := `
	UPDATE tasks
	SET completed = NOT completed,
		updated_at = CURRENT_TIMESTAMP
	WHERE id = ? AND user_id = ?
	RETURNING ` + taskColumns
	return scanTask(r.db.QueryRowContext(ctx, query, id, owner))
}

func (r *taskRepository) Delete(ctx context.Context, owner string, id int64) (*domain.Task, error) {
	query := `DELETE FROM tasks WHERE id = ? AND user_id = ? RETURNING ` + taskColumns
	return scanTask(r.db.QueryRowContext(ctx, query, id, owner))
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row scanner) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func completedFilter(status domain.TaskStatus) interface{} {
	switch status {
	case domain.TaskStatusPending:
		return false
	case domain.TaskStatusCompleted:
		return true
	default:
		return nil
	}
}
