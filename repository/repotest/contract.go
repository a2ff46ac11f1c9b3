// Package repotest holds behaviour checks shared by every storage driver.
package repotest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskchat/domain"
	"github.com/fastygo/taskchat/repository"
)

// Run exercises the full repository surface of store.
func Run(t *testing.T, store *repository.Store) {
	t.Helper()
	t.Run("tasks", func(t *testing.T) { runTasks(t, store) })
	t.Run("users", func(t *testing.T) { runUsers(t, store) })
	t.Run("conversations", func(t *testing.T) { runConversations(t, store) })
	t.Run("ping", func(t *testing.T) {
		require.NoError(t, store.Ping(context.Background()))
	})
}

func runTasks(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	seedUsers(t, store, "alice", "bob")
	tasks := store.Tasks

	first, err := tasks.Create(ctx, &domain.Task{UserID: "alice", Title: "Buy milk"})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, "", first.Description)
	assert.False(t, first.Completed)

	second, err := tasks.Create(ctx, &domain.Task{UserID: "alice", Title: "Call mom", Description: "Sunday"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	_, err = tasks.Create(ctx, &domain.Task{UserID: "alice", Title: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	got, err := tasks.Get(ctx, "alice", first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Title, got.Title)

	_, err = tasks.Get(ctx, "bob", first.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	title := "Buy oat milk"
	updated, err := tasks.Update(ctx, "alice", first.ID, domain.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, "", updated.Description)
	assert.False(t, updated.Completed)

	unchanged, err := tasks.Update(ctx, "alice", second.ID, domain.TaskPatch{})
	require.NoError(t, err)
	assert.Equal(t, "Call mom", unchanged.Title)
	assert.Equal(t, "Sunday", unchanged.Description)

	_, err = tasks.Update(ctx, "bob", first.ID, domain.TaskPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	toggled, err := tasks.Toggle(ctx, "alice", first.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	_, err = tasks.Toggle(ctx, "bob", first.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	all, err := tasks.List(ctx, "alice", repository.TaskFilter{Status: domain.TaskStatusAll})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	done, err := tasks.List(ctx, "alice", repository.TaskFilter{Status: domain.TaskStatusCompleted})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, first.ID, done[0].ID)

	pending, err := tasks.List(ctx, "alice", repository.TaskFilter{Status: domain.TaskStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	none, err := tasks.List(ctx, "bob", repository.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = tasks.Delete(ctx, "bob", first.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	deleted, err := tasks.Delete(ctx, "alice", first.ID)
	require.NoError(t, err)
	assert.Equal(t, title, deleted.Title)
	assert.True(t, deleted.Completed)

	_, err = tasks.Get(ctx, "alice", first.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	_, err = tasks.Delete(ctx, "alice", first.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func runUsers(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	_, err := store.Users.GetByID(ctx, "carol")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	created, err := store.Users.Ensure(ctx, domain.NewUser("carol"))
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", created.Email)

	again, err := store.Users.Ensure(ctx, &domain.User{ID: "carol", Email: "other@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", again.Email)

	got, err := store.Users.GetByID(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, "carol", got.ID)
}

func runConversations(t *testing.T, store *repository.Store) {
	ctx := context.Background()
	seedUsers(t, store, "dave", "erin")

	conv, err := store.Conversations.Create(ctx, "dave")
	require.NoError(t, err)
	assert.NotZero(t, conv.ID)

	_, err = store.Conversations.Get(ctx, "erin", conv.ID)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
	assert.ErrorIs(t, store.Conversations.Touch(ctx, "erin", conv.ID), domain.ErrConversationNotFound)
	require.NoError(t, store.Conversations.Touch(ctx, "dave", conv.ID))

	for _, m := range []domain.Message{
		{ConversationID: conv.ID, UserID: "dave", Role: domain.RoleUser, Content: "add buy eggs"},
		{ConversationID: conv.ID, UserID: "dave", Role: domain.RoleAssistant, Content: "done"},
	} {
		msg := m
		stored, err := store.Messages.Append(ctx, &msg)
		require.NoError(t, err)
		assert.NotZero(t, stored.ID)
	}

	transcript, err := store.Messages.ListByConversation(ctx, "dave", conv.ID)
	require.NoError(t, err)
	require.Len(t, transcript, 2)
	assert.Equal(t, domain.RoleUser, transcript[0].Role)
	assert.Equal(t, domain.RoleAssistant, transcript[1].Role)

	foreign, err := store.Messages.ListByConversation(ctx, "erin", conv.ID)
	require.NoError(t, err)
	assert.Empty(t, foreign)
}

func seedUsers(t *testing.T, store *repository.Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := store.Users.Ensure(context.Background(), domain.NewUser(id))
		require.NoError(t, err)
	}
}
