package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskchat/repository/repotest"
)

func TestStore_Contract(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repotest.Run(t, db.Store())
}

func TestDB_PingAfterClose(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	require.Error(t, db.Ping(context.Background()))
}
