package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskchat/repository/repotest"
)

func TestStore_Contract(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "tasks.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repotest.Run(t, NewStore(db))
}
