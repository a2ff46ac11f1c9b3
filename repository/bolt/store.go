// Package bolt implements the record stores on an embedded BoltDB file.
// Integer ids come from bucket sequences, so key order is insertion order.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskchat/repository"
)

var (
	bucketUsers         = []byte("users")
	bucketTasks         = []byte("tasks")
	bucketConversations = []byte("conversations")
	bucketMessages      = []byte("messages")
)

// DB wraps the Bolt handle shared by the repositories.
type DB struct {
	db  *bolt.DB
	now func() time.Time
}

// Open initializes the BoltDB file and ensures all buckets exist.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketUsers, bucketTasks, bucketConversations, bucketMessages} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the Bolt database.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Ping verifies the file is still open and readable.
func (d *DB) Ping(_ context.Context) error {
	if d == nil || d.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return d.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketTasks) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

// Store wires every Bolt repository onto the opened file.
func (d *DB) Store() *repository.Store {
	return &repository.Store{
		Driver:        "bolt",
		Tasks:         &taskRepository{db: d},
		Users:         &userRepository{db: d},
		Conversations: &conversationRepository{db: d},
		Messages:      &messageRepository{db: d},
		Ping:          d.Ping,
		Close:         d.Close,
	}
}

func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func put(b *bolt.Bucket, key []byte, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(key, payload)
}
