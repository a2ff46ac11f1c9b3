package bolt

import (
	"context"
	"encoding/json"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskchat/domain"
)

type conversationRepository struct {
	db *DB
}

func (r *conversationRepository) Create(_ context.Context, owner string) (*domain.Conversation, error) {
	if owner == "" {
		return nil, domain.ErrInvalidPayload
	}
	conv := domain.Conversation{UserID: owner}
	err := r.db.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketConversations)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		conv.ID = int64(seq)
		conv.CreatedAt = r.db.now()
		conv.UpdatedAt = conv.CreatedAt
		return put(b, itob(conv.ID), conv)
	})
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) Get(_ context.Context, owner string, id int64) (*domain.Conversation, error) {
	var conv *domain.Conversation
	err := r.db.db.View(func(tx *bolt.Tx) error {
		var err error
		conv, err = loadConversation(tx.Bucket(bucketConversations), owner, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (r *conversationRepository) Touch(_ context.Context, owner string, id int64) error {
	return r.db.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketConversations)
		conv, err := loadConversation(b, owner, id)
		if err != nil {
			return err
		}
		conv.UpdatedAt = r.db.now()
		return put(b, itob(id), conv)
	})
}

func loadConversation(b *bolt.Bucket, owner string, id int64) (*domain.Conversation, error) {
	raw := b.Get(itob(id))
	if raw == nil {
		return nil, domain.ErrConversationNotFound
	}
	var conv domain.Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		return nil, err
	}
	if conv.UserID != owner {
		return nil, domain.ErrConversationNotFound
	}
	return &conv, nil
}

type messageRepository struct {
	db *DB
}

func (r *messageRepository) Append(_ context.Context, msg *domain.Message) (*domain.Message, error) {
	if msg == nil || msg.UserID == "" || msg.ConversationID == 0 {
		return nil, domain.ErrInvalidPayload
	}
	stored := *msg
	err := r.db.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMessages)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		stored.ID = int64(seq)
		stored.CreatedAt = r.db.now()
		return put(b, itob(stored.ID), stored)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *messageRepository) ListByConversation(_ context.Context, owner string, conversationID int64) ([]domain.Message, error) {
	messages := make([]domain.Message, 0)
	err := r.db.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMessages).ForEach(func(_, v []byte) error {
			var msg domain.Message
			if err := json.Unmarshal(v, &msg); err != nil {
				return err
			}
			if msg.ConversationID == conversationID && msg.UserID == owner {
				messages = append(messages, msg)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}
