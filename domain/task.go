package domain

import "time"

// TaskStatus selects tasks by completion state when listing.
type TaskStatus string

const (
	TaskStatusAll       TaskStatus = "all"
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// ParseTaskStatus maps a raw filter value onto a TaskStatus. An empty value means all.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	switch TaskStatus(raw) {
	case "", TaskStatusAll:
		return TaskStatusAll, nil
	case TaskStatusPending:
		return TaskStatusPending, nil
	case TaskStatusCompleted:
		return TaskStatusCompleted, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Matches reports whether a task with the given completion flag passes the filter.
func (s TaskStatus) Matches(completed bool) bool {
	switch s {
	case TaskStatusPending:
		return !completed
	case TaskStatusCompleted:
		return completed
	default:
		return true
	}
}

// Task represents a user-owned todo item. UserID is set once at creation.
type Task struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskPatch carries a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Apply copies the present fields of the patch onto t.
func (p TaskPatch) Apply(t *Task) {
	if t == nil {
		return
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
