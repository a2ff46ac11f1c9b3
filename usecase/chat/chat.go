// Package chat runs chat turns: it keeps the conversation transcript and lets
// the keyword router answer each message.
package chat

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fastygo/taskchat/domain"
	appLogger "github.com/fastygo/taskchat/pkg/logger"
	"github.com/fastygo/taskchat/repository"
	"github.com/fastygo/taskchat/usecase"
)

// ToolCall is reserved for structured calls made during a turn. Turns never
// produce any today.
type ToolCall struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

type TurnRequest struct {
	ConversationID *int64 `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

type TurnResponse struct {
	ConversationID int64      `json:"conversation_id"`
	Response       string     `json:"response"`
	ToolCalls      []ToolCall `json:"tool_calls"`
}

type UseCase struct {
	router        *Router
	users         repository.UserRepository
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	recorder      usecase.Recorder
	logger        *zap.Logger
}

func New(
	router *Router,
	users repository.UserRepository,
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	recorder usecase.Recorder,
	logger *zap.Logger,
) *UseCase {
	if recorder == nil {
		recorder = usecase.NopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		router:        router,
		users:         users,
		conversations: conversations,
		messages:      messages,
		recorder:      recorder,
		logger:        logger,
	}
}

// Turn records the user's message, answers it and records the answer. The
// caller must already have authorized owner.
func (uc *UseCase) Turn(ctx context.Context, owner string, req TurnRequest) (*TurnResponse, error) {
	if owner == "" {
		return nil, domain.ErrUnauthorized
	}
	if _, err := uc.users.Ensure(ctx, domain.NewUser(owner)); err != nil {
		return nil, storeFailure(err)
	}

	conv, err := uc.conversation(ctx, owner, req.ConversationID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.messages.Append(ctx, &domain.Message{
		ConversationID: conv.ID,
		UserID:         owner,
		Role:           domain.RoleUser,
		Content:        req.Message,
	}); err != nil {
		return nil, storeFailure(err)
	}

	reply, intent := uc.router.Route(ctx, owner, req.Message)
	uc.recorder.RecordChatIntent(string(intent))

	if _, err := uc.messages.Append(ctx, &domain.Message{
		ConversationID: conv.ID,
		UserID:         owner,
		Role:           domain.RoleAssistant,
		Content:        reply,
	}); err != nil {
		return nil, storeFailure(err)
	}
	if err := uc.conversations.Touch(ctx, owner, conv.ID); err != nil {
		appLogger.WithRequestID(ctx, uc.logger).Warn("conversation touch failed",
			zap.Int64("conversation_id", conv.ID),
			zap.Error(err),
		)
	}

	appLogger.WithRequestID(ctx, uc.logger).Debug("chat turn handled",
		zap.Int64("conversation_id", conv.ID),
		zap.String("intent", string(intent)),
	)

	return &TurnResponse{
		ConversationID: conv.ID,
		Response:       reply,
		ToolCalls:      []ToolCall{},
	}, nil
}

// Transcript lists the messages of one of owner's conversations in order.
func (uc *UseCase) Transcript(ctx context.Context, owner string, conversationID int64) ([]domain.Message, error) {
	if owner == "" {
		return nil, domain.ErrUnauthorized
	}
	if _, err := uc.conversations.Get(ctx, owner, conversationID); err != nil {
		return nil, storeFailure(err)
	}
	messages, err := uc.messages.ListByConversation(ctx, owner, conversationID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return messages, nil
}

func (uc *UseCase) conversation(ctx context.Context, owner string, id *int64) (*domain.Conversation, error) {
	if id == nil || *id == 0 {
		conv, err := uc.conversations.Create(ctx, owner)
		if err != nil {
			return nil, storeFailure(err)
		}
		return conv, nil
	}
	conv, err := uc.conversations.Get(ctx, owner, *id)
	if err != nil {
		return nil, storeFailure(err)
	}
	return conv, nil
}

func storeFailure(err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.WrapError(domain.ErrCodeInternal, "store failure", err)
}
