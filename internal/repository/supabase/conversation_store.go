// Package supabase stores conversations in a hosted Supabase project through
// its PostgREST API.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"querynotes-be/internal/entity"
	"querynotes-be/internal/repository/contract"
	"querynotes-be/pkg/richtext"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const (
	tableSessions = "qa_sessions"
	tableMessages = "qa_messages"
	tableNotes    = "notes"
)

type Config struct {
	URL string
	// APIKey is the service role key. It bypasses row level security, so
	// every query below filters on user_id itself.
	APIKey string
}

type ConversationStore struct {
	client *supabase.Client
}

var _ contract.ConversationStore = (*ConversationStore)(nil)

func New(cfg Config) (*ConversationStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &ConversationStore{client: client}, nil
}

type sessionRow struct {
	Id        int64     `json:"id"`
	NoteId    int64     `json:"note_id"`
	UserId    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type newSessionRow struct {
	NoteId int64     `json:"note_id"`
	UserId uuid.UUID `json:"user_id"`
	Title  string    `json:"title"`
}

type messageRow struct {
	Id        int64           `json:"id"`
	SessionId int64           `json:"session_id"`
	UserId    uuid.UUID       `json:"user_id"`
	Role      string          `json:"role"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
}

type newMessageRow struct {
	SessionId int64           `json:"session_id"`
	UserId    uuid.UUID       `json:"user_id"`
	Role      string          `json:"role"`
	Content   json.RawMessage `json:"content"`
}

type noteRow struct {
	Id        int64           `json:"id"`
	UserId    uuid.UUID       `json:"user_id"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	Summary   *string         `json:"summary"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at"`
}

func (r sessionRow) toEntity() *entity.QASession {
	return &entity.QASession{
		Id:        r.Id,
		NoteId:    r.NoteId,
		UserId:    r.UserId,
		Title:     r.Title,
		CreatedAt: r.CreatedAt,
	}
}

func (r messageRow) toEntity() *entity.QAMessage {
	return &entity.QAMessage{
		Id:        r.Id,
		SessionId: r.SessionId,
		UserId:    r.UserId,
		Role:      r.Role,
		Content:   richtext.FromRaw(r.Content),
		CreatedAt: r.CreatedAt,
	}
}

func (r noteRow) toEntity() *entity.Note {
	return &entity.Note{
		Id:        r.Id,
		UserId:    r.UserId,
		Title:     r.Title,
		Content:   richtext.FromRaw(r.Content),
		Summary:   r.Summary,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

// The PostgREST client takes no context; a cancelled request is at least not
// started.

func (s *ConversationStore) CreateSession(ctx context.Context, session *entity.QASession) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var rows []sessionRow
	_, err := s.client.From(tableSessions).
		Insert(newSessionRow{NoteId: session.NoteId, UserId: session.UserId, Title: session.Title}, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("failed to create session: no row returned")
	}

	*session = *rows[0].toEntity()
	return nil
}

func (s *ConversationStore) AppendMessage(ctx context.Context, message *entity.QAMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var owned []struct {
		Id int64 `json:"id"`
	}
	_, err := s.client.From(tableSessions).
		Select("id", "", false).
		Eq("id", id(message.SessionId)).
		Eq("user_id", message.UserId.String()).
		ExecuteTo(&owned)
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if len(owned) == 0 {
		return contract.ErrSessionNotFound
	}

	content, err := message.Content.MarshalJSON()
	if err != nil {
		return err
	}

	var rows []messageRow
	_, err = s.client.From(tableMessages).
		Insert(newMessageRow{
			SessionId: message.SessionId,
			UserId:    message.UserId,
			Role:      message.Role,
			Content:   content,
		}, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	if len(rows) > 0 {
		*message = *rows[0].toEntity()
	}
	return nil
}

func (s *ConversationStore) ListSessions(ctx context.Context, noteId int64, userId uuid.UUID) ([]*entity.QASession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []sessionRow
	_, err := s.client.From(tableSessions).
		Select("id,note_id,user_id,title,created_at", "", false).
		Eq("note_id", id(noteId)).
		Eq("user_id", userId.String()).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Order("id", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*entity.QASession, len(rows))
	for i, r := range rows {
		sessions[i] = r.toEntity()
	}
	return sessions, nil
}

func (s *ConversationStore) ListMessages(ctx context.Context, sessionId int64, userId uuid.UUID) ([]*entity.QAMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []messageRow
	_, err := s.client.From(tableMessages).
		Select("id,session_id,user_id,role,content,created_at", "", false).
		Eq("session_id", id(sessionId)).
		Eq("user_id", userId.String()).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Order("id", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]*entity.QAMessage, len(rows))
	for i, r := range rows {
		messages[i] = r.toEntity()
	}
	return messages, nil
}

func (s *ConversationStore) GetNote(ctx context.Context, noteId int64, userId uuid.UUID) (*entity.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []noteRow
	_, err := s.client.From(tableNotes).
		Select("id,user_id,title,content,summary,created_at,updated_at", "", false).
		Eq("id", id(noteId)).
		Eq("user_id", userId.String()).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toEntity(), nil
}

func (s *ConversationStore) UpdateNoteSummary(ctx context.Context, noteId int64, userId uuid.UUID, summary string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var rows []struct {
		Id int64 `json:"id"`
	}
	_, err := s.client.From(tableNotes).
		Update(map[string]interface{}{"summary": summary}, "representation", "").
		Eq("id", id(noteId)).
		Eq("user_id", userId.String()).
		ExecuteTo(&rows)
	if err != nil {
		return fmt.Errorf("failed to update note summary: %w", err)
	}
	if len(rows) == 0 {
		return contract.ErrNoteNotFound
	}
	return nil
}
