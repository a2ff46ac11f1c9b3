package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskchat/domain"
)

func TestGuard_Authorize(t *testing.T) {
	tests := []struct {
		name     string
		identity string
		owner    string
		allowed  bool
	}{
		{name: "same user", identity: "u1", owner: "u1", allowed: true},
		{name: "different user", identity: "u1", owner: "u2"},
		{name: "missing identity", identity: "", owner: "u1"},
		{name: "missing owner", identity: "u1", owner: ""},
		{name: "both empty", identity: "", owner: ""},
		{name: "case differs", identity: "U1", owner: "u1"},
	}

	guard := NewGuard(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.Authorize(context.Background(), tt.identity, tt.owner)
			if tt.allowed {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrForbidden)
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
		})
	}
}
