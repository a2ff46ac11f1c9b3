package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fastygo/taskchat/domain"
	"github.com/fastygo/taskchat/repository"
	"github.com/fastygo/taskchat/repository/bolt"
)

func TestRun_LeavesNoTaskBehind(t *testing.T) {
	db, err := bolt.Open(filepath.Join(t.TempDir(), "diag.db"))
	require.NoError(t, err)
	store := db.Store()
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, run(ctx, store, zap.NewNop()))

	user, err := store.Users.GetByID(ctx, diagnosticUser)
	require.NoError(t, err)
	assert.Equal(t, diagnosticUser, user.ID)

	tasks, err := store.Tasks.List(ctx, diagnosticUser, repository.TaskFilter{Status: domain.TaskStatusAll})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
