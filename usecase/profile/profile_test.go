package profile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskchat/domain"
	"github.com/fastygo/taskchat/repository/bolt"
)

func TestGetProfile(t *testing.T) {
	db, err := bolt.Open(filepath.Join(t.TempDir(), "profile.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := db.Store()
	ctx := context.Background()

	uc := New(store.Users, store.Tasks, nil)

	_, err = uc.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = store.Users.Ensure(ctx, domain.NewUser("u1"))
	require.NoError(t, err)
	first, err := store.Tasks.Create(ctx, &domain.Task{UserID: "u1", Title: "one"})
	require.NoError(t, err)
	_, err = store.Tasks.Create(ctx, &domain.Task{UserID: "u1", Title: "two"})
	require.NoError(t, err)
	_, err = store.Tasks.Toggle(ctx, "u1", first.ID)
	require.NoError(t, err)

	profile, err := uc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", profile.Email)
	assert.Equal(t, 2, profile.TotalTasks)
	assert.Equal(t, 1, profile.CompletedTasks)
}
