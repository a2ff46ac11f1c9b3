package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, "/mcp", cfg.MCP.Path)
	assert.True(t, cfg.JWT.DevLogin)
	assert.NotEmpty(t, cfg.JWT.Secret)
	assert.Equal(t, "postgres://taskchat:@localhost:5432/taskchat?sslmode=disable", cfg.Database.URL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_DRIVER", "bolt")
	t.Setenv("BOLTDB_PATH", "/tmp/x.db")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "9")
	t.Setenv("JWT_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverBolt, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Storage.BoltPath)
	assert.Equal(t, 9*time.Second, cfg.Context.RequestTimeout)
	assert.Equal(t, 30*time.Minute, cfg.JWT.TTL)
	assert.False(t, cfg.JWT.DevLogin)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"APP_ENV": "development", "STORAGE_DRIVER": "mongo"}},
		{"missing secret in production", map[string]string{"APP_ENV": "production", "JWT_SECRET": ""}},
		{"relative mcp path", map[string]string{"APP_ENV": "development", "MCP_PATH": "mcp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
