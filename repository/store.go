package repository

import "context"

// Store bundles the record stores of one storage driver.
type Store struct {
	Driver        string
	Tasks         TaskRepository
	Users         UserRepository
	Conversations ConversationRepository
	Messages      MessageRepository

	// Ping reports whether the backing engine is reachable.
	Ping func(ctx context.Context) error
	// Close releases the underlying engine.
	Close func() error
}
