package cache

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"querynotes-be/internal/entity"
	"querynotes-be/internal/pkg/logger"
	"querynotes-be/internal/repository/memory"
	"querynotes-be/pkg/richtext"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*memory.ConversationStore
	reads atomic.Int32
}

func (s *countingStore) GetNote(ctx context.Context, noteId int64, userId uuid.UUID) (*entity.Note, error) {
	s.reads.Add(1)
	return s.ConversationStore.GetNote(ctx, noteId, userId)
}

func TestNoteKey(t *testing.T) {
	userId := uuid.MustParse("7f0c8a8e-3b1d-4c59-9d0e-2f6a1b4c5d6e")
	assert.Equal(t, "querynotes:note:12:7f0c8a8e-3b1d-4c59-9d0e-2f6a1b4c5d6e", noteKey(12, userId))
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("http://not-redis")
	assert.Error(t, err)
}

// Runs against a real server when REDIS_URL is set.
func TestNoteCachingStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	client, err := NewClient(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	userId := uuid.New()
	inner := &countingStore{ConversationStore: memory.NewConversationStore()}
	note := &entity.Note{
		UserId:  userId,
		Title:   "Plan",
		Content: richtext.FromString(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Ship in March."}]}]}`),
	}
	inner.PutNote(note)
	t.Cleanup(func() { client.Del(ctx, noteKey(note.Id, userId)) })

	store := NewNoteCachingStore(inner, client, time.Minute, logger.NewNopLogger())

	t.Run("second read is served from cache", func(t *testing.T) {
		first, err := store.GetNote(ctx, note.Id, userId)
		require.NoError(t, err)
		second, err := store.GetNote(ctx, note.Id, userId)
		require.NoError(t, err)

		assert.Equal(t, int32(1), inner.reads.Load())
		assert.Equal(t, "Ship in March.", second.Content.Text())
		assert.Equal(t, first.Title, second.Title)
	})

	t.Run("summary update invalidates", func(t *testing.T) {
		require.NoError(t, store.UpdateNoteSummary(ctx, note.Id, userId, "March launch."))

		got, err := store.GetNote(ctx, note.Id, userId)
		require.NoError(t, err)
		require.NotNil(t, got.Summary)
		assert.Equal(t, "March launch.", *got.Summary)
		assert.Equal(t, int32(2), inner.reads.Load())
	})

	t.Run("missing notes are not cached", func(t *testing.T) {
		got, err := store.GetNote(ctx, 999999, userId)
		require.NoError(t, err)
		assert.Nil(t, got)

		exists, err := client.Exists(ctx, noteKey(999999, userId)).Result()
		require.NoError(t, err)
		assert.Zero(t, exists)
	})
}
