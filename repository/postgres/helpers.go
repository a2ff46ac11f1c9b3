package postgres

import "github.com/fastygo/taskchat/domain"

// completedFilter turns a status filter into a nullable boolean query argument.
func completedFilter(status domain.TaskStatus) *bool {
	var completed bool
	switch status {
	case domain.TaskStatusPending:
		completed = false
	case domain.TaskStatusCompleted:
		completed = true
	default:
		return nil
	}
	return &completed
}
