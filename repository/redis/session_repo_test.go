package redis

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskchat/domain"
)

// memoryClient answers the three commands the session store issues.
type memoryClient struct {
	redislib.Cmdable
	values map[string]string
	ttls   map[string]time.Duration
}

func newMemoryClient() *memoryClient {
	return &memoryClient{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *memoryClient) Get(_ context.Context, key string) *redislib.StringCmd {
	val, ok := c.values[key]
	if !ok {
		return redislib.NewStringResult("", redislib.Nil)
	}
	return redislib.NewStringResult(val, nil)
}

func (c *memoryClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redislib.StatusCmd {
	switch v := value.(type) {
	case []byte:
		c.values[key] = string(v)
	case string:
		c.values[key] = v
	}
	c.ttls[key] = expiration
	return redislib.NewStatusResult("OK", nil)
}

func (c *memoryClient) Del(_ context.Context, keys ...string) *redislib.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := c.values[key]; ok {
			delete(c.values, key)
			n++
		}
	}
	return redislib.NewIntResult(n, nil)
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	client := newMemoryClient()
	repo := NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	session := &domain.Session{ID: "s1", UserID: "alice", ExpiresAt: time.Now().Add(10 * time.Minute)}
	require.NoError(t, repo.Save(ctx, session))
	assert.Contains(t, client.values, "taskchat:session:s1")
	assert.InDelta(t, (10 * time.Minute).Seconds(), client.ttls["taskchat:session:s1"].Seconds(), 5)

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserID)
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, repo.Extend(ctx, "s1", 2*time.Hour))
	assert.InDelta(t, (2 * time.Hour).Seconds(), client.ttls["taskchat:session:s1"].Seconds(), 5)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionRepository_SaveDefaultsExpiry(t *testing.T) {
	client := newMemoryClient()
	repo := NewSessionRepository(client, 30*time.Minute)

	require.NoError(t, repo.Save(context.Background(), &domain.Session{ID: "s2", UserID: "bob"}))
	assert.InDelta(t, (30 * time.Minute).Seconds(), client.ttls["taskchat:session:s2"].Seconds(), 5)
}

func TestSessionRepository_Rejects(t *testing.T) {
	repo := NewSessionRepository(newMemoryClient(), time.Hour)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Save(ctx, &domain.Session{ID: "s3"}), domain.ErrInvalidPayload)
	assert.ErrorIs(t, repo.Extend(ctx, "missing", time.Hour), domain.ErrSessionNotFound)
}
