package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskchat/domain"
	"github.com/fastygo/taskchat/repository"
)

type conversationRepository struct {
	pool *pgxpool.Pool
}

// NewConversationRepository returns a Postgres-backed ConversationRepository.
func NewConversationRepository(pool *pgxpool.Pool) repository.ConversationRepository {
	return &conversationRepository{pool: pool}
}

func (r *conversationRepository) Create(ctx context.Context, owner string) (*domain.Conversation, error) {
	const query = `
	INSERT INTO conversations (user_id)
	VALUES ($1)
	RETURNING id, user_id, created_at, updated_at
	`
	return scanConversation(r.pool.QueryRow(ctx, query, owner))
}

func (r *conversationRepository) Get(ctx context.Context, owner string, id int64) (*domain.Conversation, error) {
	const query = `
	SELECT id, user_id, created_at, updated_at
	FROM conversations
	WHERE id = $1 AND user_id = $2
	`
	return scanConversation(r.pool.QueryRow(ctx, query, id, owner))
}

func (r *conversationRepository) Touch(ctx context.Context, owner string, id int64) error {
	const query = `UPDATE conversations SET updated_at = NOW() WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, owner)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

func scanConversation(row pgx.Row) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := row.Scan(&conv.ID, &conv.UserID, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository returns a Postgres-backed MessageRepository.
func NewMessageRepository(pool *pgxpool.Pool) repository.MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Append(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if msg == nil || msg.UserID == "" || msg.ConversationID == 0 {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO messages (conversation_id, user_id, role, content)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at
	`
	stored := *msg
	if err := r.pool.QueryRow(ctx, query, msg.ConversationID, msg.UserID, msg.Role, msg.Content).
		Scan(&stored.ID, &stored.CreatedAt); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *messageRepository) ListByConversation(ctx context.Context, owner string, conversationID int64) ([]domain.Message, error) {
	const query = `
	SELECT id, conversation_id, user_id, role, content, created_at
	FROM messages
	WHERE conversation_id = $1 AND user_id = $2
	ORDER BY id ASC
	`
	rows, err := r.pool.Query(ctx, query, conversationID, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.UserID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
