package repository

import (
	"context"

	"github.com/fastygo/taskchat/domain"
)

type ConversationRepository interface {
	Create(ctx context.Context, owner string) (*domain.Conversation, error)
	Get(ctx context.Context, owner string, id int64) (*domain.Conversation, error)
	Touch(ctx context.Context, owner string, id int64) error
}

type MessageRepository interface {
	Append(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	ListByConversation(ctx context.Context, owner string, conversationID int64) ([]domain.Message, error)
}
