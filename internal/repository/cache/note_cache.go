// Package cache decorates a conversation store with a Redis read-through
// cache for note bodies, which are read on every chat turn.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"querynotes-be/internal/entity"
	"querynotes-be/internal/pkg/logger"
	"querynotes-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	noteKeyPrefix  = "querynotes:note:"
	DefaultNoteTTL = 30 * time.Second
	pingTimeout    = 3 * time.Second
)

type NoteCachingStore struct {
	contract.ConversationStore
	client *redis.Client
	ttl    time.Duration
	log    logger.ILogger
}

var _ contract.ConversationStore = (*NoteCachingStore)(nil)

func NewNoteCachingStore(inner contract.ConversationStore, client *redis.Client, ttl time.Duration, log logger.ILogger) *NoteCachingStore {
	if ttl <= 0 {
		ttl = DefaultNoteTTL
	}
	return &NoteCachingStore{
		ConversationStore: inner,
		client:            client,
		ttl:               ttl,
		log:               log,
	}
}

// NewClient parses a redis:// URL and checks the server answers.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func noteKey(noteId int64, userId uuid.UUID) string {
	return fmt.Sprintf("%s%d:%s", noteKeyPrefix, noteId, userId)
}

// GetNote serves from Redis when possible. Cache errors degrade to a direct
// store read; missing notes are not cached.
func (s *NoteCachingStore) GetNote(ctx context.Context, noteId int64, userId uuid.UUID) (*entity.Note, error) {
	key := noteKey(noteId, userId)

	val, err := s.client.Get(ctx, key).Bytes()
	if err == nil {
		var note entity.Note
		if err := json.Unmarshal(val, &note); err == nil {
			return &note, nil
		}
		s.log.Warn("STORE", "Discarding unreadable cached note", map[string]interface{}{"key": key})
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn("STORE", "Note cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	note, err := s.ConversationStore.GetNote(ctx, noteId, userId)
	if err != nil || note == nil {
		return note, err
	}

	payload, err := json.Marshal(note)
	if err != nil {
		return note, nil
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.log.Warn("STORE", "Note cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return note, nil
}

func (s *NoteCachingStore) UpdateNoteSummary(ctx context.Context, noteId int64, userId uuid.UUID, summary string) error {
	if err := s.ConversationStore.UpdateNoteSummary(ctx, noteId, userId, summary); err != nil {
		return err
	}

	if err := s.client.Del(ctx, noteKey(noteId, userId)).Err(); err != nil {
		s.log.Warn("STORE", "Note cache invalidation failed", map[string]interface{}{
			"note_id": noteId,
			"error":   err.Error(),
		})
	}
	return nil
}
