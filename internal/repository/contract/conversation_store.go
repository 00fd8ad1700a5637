package contract

import (
	"context"
	"errors"

	"querynotes-be/internal/entity"

	"github.com/google/uuid"
)

var (
	ErrNoteNotFound    = errors.New("note not found")
	ErrSessionNotFound = errors.New("session not found")
)

// ConversationStore is everything the chat and summary flows persist or
// read. Every call is scoped to userId.
type ConversationStore interface {
	// CreateSession fills in Id and CreatedAt.
	CreateSession(ctx context.Context, session *entity.QASession) error
	// AppendMessage returns ErrSessionNotFound when the session does not
	// belong to message.UserId.
	AppendMessage(ctx context.Context, message *entity.QAMessage) error
	// ListSessions returns the note's sessions, newest first.
	ListSessions(ctx context.Context, noteId int64, userId uuid.UUID) ([]*entity.QASession, error)
	// ListMessages returns the session's messages, oldest first.
	ListMessages(ctx context.Context, sessionId int64, userId uuid.UUID) ([]*entity.QAMessage, error)
	// GetNote returns nil, nil when no such note exists for userId.
	GetNote(ctx context.Context, noteId int64, userId uuid.UUID) (*entity.Note, error)
	// UpdateNoteSummary returns ErrNoteNotFound when nothing matched.
	UpdateNoteSummary(ctx context.Context, noteId int64, userId uuid.UUID, summary string) error
}
