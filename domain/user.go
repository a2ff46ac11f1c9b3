package domain

import (
	"fmt"
	"time"
)

// User represents an authenticated identity owning tasks and conversations.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser returns the record created implicitly on first access.
func NewUser(id string) *User {
	return &User{
		ID:    id,
		Email: DefaultEmail(id),
	}
}

// DefaultEmail is the placeholder address given to users created without one.
func DefaultEmail(id string) string {
	return fmt.Sprintf("%s@example.com", id)
}
