package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskchat/domain"
	"github.com/fastygo/taskchat/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, user_id, title, description, completed, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.UserID == "" || strings.TrimSpace(task.Title) == "" {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO tasks (user_id, title, description, completed)
	VALUES ($1, $2, $3, FALSE)
	RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query, task.UserID, task.Title, task.Description)
	return scanTask(row)
}

func (r *taskRepository) Get(ctx context.Context, owner string, id int64) (*domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE id = $1 AND user_id = $2
	`
	row := r.pool.QueryRow(ctx, query, id, owner)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, owner string, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = $1
	  AND ($2::boolean IS NULL OR completed = $2)
	ORDER BY id ASC
	`
	rows, err := r.pool.Query(ctx, query, owner, completedFilter(filter.Status))
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
	const query = `
	UPDATE tasks
	SET title = COALESCE($3::text, title),
		description = COALESCE($4::text, description),
		completed = COALESCE($5::boolean, completed),
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query, id, owner, patch.Title, patch.Description, patch.Completed)
	return scanTask(row)
}

func (r *taskRepository) Toggle(ctx context.Context, owner string, id int64) (*domain.Task, error) {
	const query = `
	UPDATE tasks
	SET completed = NOT completed,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query, id, owner)
	return scanTask(row)
}

func (r *taskRepository) Delete(ctx context.Context, owner string, id int64) (*domain.Task, error) {
	const query = `
	DELETE FROM tasks
	WHERE id = $1 AND user_id = $2
	RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query, id, owner)
	return scanTask(row)
}

func scanTask(row pgx.Row) (*domain.Task, error) {
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}
