// Package memory is a process-local ConversationStore for development and
// tests. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"querynotes-be/internal/entity"
	"querynotes-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	sessionPrefix  = "session:"
	messagesPrefix = "messages:"
	notePrefix     = "note:"
)

var _ contract.ConversationStore = (*ConversationStore)(nil)

type ConversationStore struct {
	cache *cache.Cache

	mu     sync.Mutex
	lastId int64
	now    func() time.Time
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		cache: cache.New(cache.NoExpiration, 0),
		now:   time.Now,
	}
}

func key(prefix string, id int64) string {
	return fmt.Sprintf("%s%d", prefix, id)
}

// nextId must be called with mu held.
func (s *ConversationStore) nextId() int64 {
	s.lastId++
	return s.lastId
}

// PutNote inserts or replaces a note. Notes are owned by another service, so
// the store only offers this for seeding.
func (s *ConversationStore) PutNote(note *entity.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.Id == 0 {
		note.Id = s.nextId()
	} else if note.Id > s.lastId {
		s.lastId = note.Id
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = s.now()
	}
	n := *note
	s.cache.Set(key(notePrefix, n.Id), &n, cache.NoExpiration)
}

func (s *ConversationStore) CreateSession(ctx context.Context, session *entity.QASession) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session.Id = s.nextId()
	session.CreatedAt = s.now()
	stored := *session
	s.cache.Set(key(sessionPrefix, stored.Id), &stored, cache.NoExpiration)
	return nil
}

func (s *ConversationStore) AppendMessage(ctx context.Context, message *entity.QAMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	x, found := s.cache.Get(key(sessionPrefix, message.SessionId))
	if !found || x.(*entity.QASession).UserId != message.UserId {
		return contract.ErrSessionNotFound
	}

	message.Id = s.nextId()
	message.CreatedAt = s.now()
	stored := *message

	var messages []*entity.QAMessage
	if x, found := s.cache.Get(key(messagesPrefix, message.SessionId)); found {
		messages = x.([]*entity.QAMessage)
	}
	s.cache.Set(key(messagesPrefix, message.SessionId), append(messages, &stored), cache.NoExpiration)
	return nil
}

func (s *ConversationStore) ListSessions(ctx context.Context, noteId int64, userId uuid.UUID) ([]*entity.QASession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sessions := make([]*entity.QASession, 0)
	for k, item := range s.cache.Items() {
		if !strings.HasPrefix(k, sessionPrefix) {
			continue
		}
		session := item.Object.(*entity.QASession)
		if session.NoteId == noteId && session.UserId == userId {
			c := *session
			sessions = append(sessions, &c)
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].Id > sessions[j].Id
		}
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

func (s *ConversationStore) ListMessages(ctx context.Context, sessionId int64, userId uuid.UUID) ([]*entity.QAMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]*entity.QAMessage, 0)
	x, found := s.cache.Get(key(messagesPrefix, sessionId))
	if !found {
		return messages, nil
	}
	// Appends happen in id order, so the slice is already oldest first.
	for _, m := range x.([]*entity.QAMessage) {
		if m.UserId == userId {
			c := *m
			messages = append(messages, &c)
		}
	}
	return messages, nil
}

func (s *ConversationStore) GetNote(ctx context.Context, noteId int64, userId uuid.UUID) (*entity.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x, found := s.cache.Get(key(notePrefix, noteId))
	if !found {
		return nil, nil
	}
	note := x.(*entity.Note)
	if note.UserId != userId {
		return nil, nil
	}
	c := *note
	return &c, nil
}

func (s *ConversationStore) UpdateNoteSummary(ctx context.Context, noteId int64, userId uuid.UUID, summary string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	x, found := s.cache.Get(key(notePrefix, noteId))
	if !found || x.(*entity.Note).UserId != userId {
		return contract.ErrNoteNotFound
	}

	updated := *x.(*entity.Note)
	now := s.now()
	updated.Summary = &summary
	updated.UpdatedAt = &now
	s.cache.Set(key(notePrefix, noteId), &updated, cache.NoExpiration)
	return nil
}
