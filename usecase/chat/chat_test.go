package chat

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskchat/domain"
	"github.com/fastygo/taskchat/repository"
	"github.com/fastygo/taskchat/repository/bolt"
	taskUC "github.com/fastygo/taskchat/usecase/task"
)

type intentRecorder struct {
	intents []string
}

func (r *intentRecorder) RecordTaskOperation(string, string) {}
func (r *intentRecorder) RecordToolCall(string, bool)        {}
func (r *intentRecorder) RecordChatIntent(intent string)     { r.intents = append(r.intents, intent) }

func newChat(t *testing.T) (*UseCase, *taskUC.UseCase, *repository.Store, *intentRecorder) {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := db.Store()
	rec := &intentRecorder{}
	tasks := taskUC.New(store.Tasks, store.Users, rec, nil)
	uc := New(NewRouter(tasks, nil), store.Users, store.Conversations, store.Messages, rec, nil)
	return uc, tasks, store, rec
}

func TestTurn_AddBuyEggs(t *testing.T) {
	uc, tasks, _, rec := newChat(t)
	ctx := context.Background()

	resp, err := uc.Turn(ctx, "u1", TurnRequest{Message: "add buy eggs"})
	require.NoError(t, err)
	assert.Equal(t, "I've added the task 'buy eggs' to your list.", resp.Response)
	assert.NotZero(t, resp.ConversationID)
	assert.NotNil(t, resp.ToolCalls)
	assert.Empty(t, resp.ToolCalls)
	assert.Equal(t, []string{"add"}, rec.intents)

	listed, err := tasks.ListTasks(ctx, "u1", domain.TaskStatusAll)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "buy eggs", listed[0].Title)
	assert.False(t, listed[0].Completed)
}

func TestTurn_ShowCompletedWithNone(t *testing.T) {
	uc, tasks, _, _ := newChat(t)
	ctx := context.Background()

	_, err := tasks.AddTask(ctx, "u1", taskUC.CreateRequest{Title: "still open"})
	require.NoError(t, err)

	resp, err := uc.Turn(ctx, "u1", TurnRequest{Message: "show completed"})
	require.NoError(t, err)
	assert.Equal(t, "You don't have any tasks.", resp.Response)
}

func TestTurn_ContinuesConversation(t *testing.T) {
	uc, _, _, _ := newChat(t)
	ctx := context.Background()

	first, err := uc.Turn(ctx, "u1", TurnRequest{Message: "add water plants"})
	require.NoError(t, err)

	id := first.ConversationID
	second, err := uc.Turn(ctx, "u1", TurnRequest{ConversationID: &id, Message: "list"})
	require.NoError(t, err)
	assert.Equal(t, id, second.ConversationID)
	assert.Equal(t, "Here are your tasks:\n- water plants", second.Response)

	transcript, err := uc.Transcript(ctx, "u1", id)
	require.NoError(t, err)
	require.Len(t, transcript, 4)

	roles := make([]string, 0, len(transcript))
	for _, msg := range transcript {
		roles = append(roles, msg.Role)
		assert.Equal(t, "u1", msg.UserID)
	}
	assert.Equal(t, []string{domain.RoleUser, domain.RoleAssistant, domain.RoleUser, domain.RoleAssistant}, roles)
	assert.Equal(t, "add water plants", transcript[0].Content)
	assert.Equal(t, second.Response, transcript[3].Content)
}

func TestTurn_Rejects(t *testing.T) {
	uc, _, _, _ := newChat(t)
	ctx := context.Background()

	_, err := uc.Turn(ctx, "", TurnRequest{Message: "hi"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	foreign, err := uc.Turn(ctx, "u2", TurnRequest{Message: "hi"})
	require.NoError(t, err)

	id := foreign.ConversationID
	_, err = uc.Turn(ctx, "u1", TurnRequest{ConversationID: &id, Message: "hi"})
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)

	_, err = uc.Transcript(ctx, "u1", id)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestTurn_ZeroConversationIDStartsNew(t *testing.T) {
	uc, _, _, _ := newChat(t)
	ctx := context.Background()

	zero := int64(0)
	resp, err := uc.Turn(ctx, "u1", TurnRequest{ConversationID: &zero, Message: "hello"})
	require.NoError(t, err)
	assert.NotZero(t, resp.ConversationID)

	transcript, err := uc.Transcript(ctx, "u1", resp.ConversationID)
	require.NoError(t, err)
	assert.Len(t, transcript, 2)
}

func TestTurn_BlankMessageFallsBack(t *testing.T) {
	uc, _, _, rec := newChat(t)
	ctx := context.Background()

	resp, err := uc.Turn(ctx, "u1", TurnRequest{Message: "   "})
	require.NoError(t, err)
	assert.Equal(t, "I understand you said: '   '. You can ask me to add, list, complete, or delete tasks.", resp.Response)
	assert.Equal(t, []string{"unknown"}, rec.intents)
}
