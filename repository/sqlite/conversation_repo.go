package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fastygo/taskchat/domain"
)

type conversationRepository struct {
	db *sql.DB
}

func (r *conversationRepository) Create(ctx context.Context, owner string) (*domain.Conversation, error) {
	const query = `INSERT INTO conversations (user_id) VALUES (?) RETURNING id, user_id, created_at, updated_at`
	return scanConversation(r.db.QueryRowContext(ctx, query, owner))
}

func (r *conversationRepository) Get(ctx context.Context, owner string, id int64) (*domain.Conversation, error) {
	const query = `SELECT id, user_id, created_at, updated_at FROM conversations WHERE id = ? AND user_id = ?`
	return scanConversation(r.db.QueryRowContext(ctx, query, id, owner))
}

func (r *conversationRepository) Touch(ctx context.Context, owner string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE conversations SET updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`, id, owner)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

func scanConversation(row scanner) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := row.Scan(&conv.ID, &conv.UserID, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

type messageRepository struct {
	db *sql.DB
}

func (r *messageRepository) Append(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if msg == nil || msg.UserID == "" || msg.ConversationID == 0 {
		return nil, domain.ErrInvalidPayload
	}
	const query = `
	INSERT INTO messages (conversation_id, user_id, role, content)
	VALUES (?, ?, ?, ?)
	RETURNING id, created_at`

	stored := *msg
	if err := r.db.QueryRowContext(ctx, query, msg.ConversationID, msg.UserID, msg.Role, msg.Content).
		Scan(&stored.ID, &stored.CreatedAt); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *messageRepository) ListByConversation(ctx context.Context, owner string, conversationID int64) ([]domain.Message, error) {
	const query = `
	SELECT id, conversation_id, user_id, role, content, created_at
	FROM messages
	WHERE conversation_id = ? AND user_id = ?
	ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, conversationID, owner)
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
