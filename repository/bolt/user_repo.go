package bolt

import (
	"context"
	"encoding/json"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskchat/domain"
)

type userRepository struct {
	db *DB
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	var user *domain.User
	err := r.db.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketUsers).Get([]byte(id))
		if raw == nil {
			return domain.ErrUserNotFound
		}
		user = &domain.User{}
		return json.Unmarshal(raw, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Ensure(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil || user.ID == "" {
		return nil, domain.ErrInvalidPayload
	}

	var stored domain.User
	err := r.db.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		if raw := b.Get([]byte(user.ID)); raw != nil {
			return json.Unmarshal(raw, &stored)
		}
		stored = domain.User{ID: user.ID, Email: user.Email, CreatedAt: r.db.now()}
		if stored.Email == "" {
			stored.Email = domain.DefaultEmail(user.ID)
		}
		return put(b, []byte(stored.ID), stored)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}
