package bolt

import (
	"context"
	"encoding/json"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskchat/domain"
	"github.com/fastygo/taskchat/repository"
)

type taskRepository struct {
	db *DB
}

func (r *taskRepository) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.UserID == "" || strings.TrimSpace(task.Title) == "" {
		return nil, domain.ErrInvalidPayload
	}

	stored := domain.Task{
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
	}
	err := r.db.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTasks)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		stored.ID = int64(seq)
		stored.CreatedAt = r.db.now()
		stored.UpdatedAt = stored.CreatedAt
		return put(b, itob(stored.ID), stored)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *taskRepository) Get(_ context.Context, owner string, id int64) (*domain.Task, error) {
	var task *domain.Task
	err := r.db.db.View(func(tx *bolt.Tx) error {
		var err error
		task, err = loadTask(tx.Bucket(bucketTasks), owner, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) List(_ context.Context, owner string, filter repository.TaskFilter) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	err := r.db.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTasks).ForEach(func(_, v []byte) error {
			var task domain.Task
			if err := json.Unmarshal(v, &task); err != nil {
				return err
			}
			if task.UserID == owner && filter.Status.Matches(task.Completed) {
				tasks = append(tasks, task)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Update(_ context.Context, owner string, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	return r.mutate(owner, id, func(task *domain.Task) {
		patch.Apply(task)
	})
}

func (r *taskRepository) Toggle(_ context.Context, owner string, id int64) (*domain.Task, error) {
	return r.mutate(owner, id, func(task *domain.Task) {
		task.Completed = !task.Completed
	})
}

func (r *taskRepository) Delete(_ context.Context, owner string, id int64) (*domain.Task, error) {
	var task *domain.Task
	err := r.db.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTasks)
		var err error
		if task, err = loadTask(b, owner, id); err != nil {
			return err
		}
		return b.Delete(itob(id))
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// mutate applies fn to the owner's task inside a single write transaction.
func (r *taskRepository) mutate(owner string, id int64, fn func(*domain.Task)) (*domain.Task, error) {
	var task *domain.Task
	err := r.db.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTasks)
		var err error
		if task, err = loadTask(b, owner, id); err != nil {
			return err
		}
		fn(task)
		task.UpdatedAt = r.db.now()
		return put(b, itob(id), task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func loadTask(b *bolt.Bucket, owner string, id int64) (*domain.Task, error) {
	raw := b.Get(itob(id))
	if raw == nil {
		return nil, domain.ErrTaskNotFound
	}
	var task domain.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, err
	}
	if task.UserID != owner {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}
