package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/taskchat/domain"
	"github.com/fastygo/taskchat/repository"
)

// Profile is the user record with a summary of the user's tasks.
type Profile struct {
	domain.User
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
}

type UseCase struct {
	users  repository.UserRepository
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		tasks:  tasks,
		logger: logger,
	}
}

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks, err := uc.tasks.List(ctx, userID, repository.TaskFilter{Status: domain.TaskStatusAll})
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "store failure", err)
	}
	profile := &Profile{User: *user, TotalTasks: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			profile.CompletedTasks++
		}
	}
	return profile, nil
}
