// Package store provides the Postgres-backed ConversationStore.
package store

import (
	"context"

	"querynotes-be/internal/entity"
	"querynotes-be/internal/repository/contract"
	"querynotes-be/internal/repository/scope"
	"querynotes-be/internal/repository/specification"
	"querynotes-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type GormConversationStore struct {
	factory unitofwork.RepositoryFactory
}

func NewGormConversationStore(factory unitofwork.RepositoryFactory) contract.ConversationStore {
	return &GormConversationStore{factory: factory}
}

func (s *GormConversationStore) CreateSession(ctx context.Context, session *entity.QASession) error {
	return s.factory.NewUnitOfWork(ctx).QASessionRepository().Create(ctx, session)
}

func (s *GormConversationStore) AppendMessage(ctx context.Context, message *entity.QAMessage) (err error) {
	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	owned, err := uow.QASessionRepository().Count(ctx,
		specification.ByID{ID: message.SessionId},
		specification.UserOwnedBy{UserID: message.UserId},
	)
	if err != nil {
		return err
	}
	if owned == 0 {
		return contract.ErrSessionNotFound
	}

	if err = uow.QAMessageRepository().Create(ctx, message); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *GormConversationStore) ListSessions(ctx context.Context, noteId int64, userId uuid.UUID) ([]*entity.QASession, error) {
	return s.factory.NewUnitOfWork(ctx).QASessionRepository().FindAll(ctx,
		specification.ByNoteID{NoteID: noteId},
		specification.UserOwnedBy{UserID: userId},
		specification.WithScope(scope.OrderByCreatedDesc),
	)
}

func (s *GormConversationStore) ListMessages(ctx context.Context, sessionId int64, userId uuid.UUID) ([]*entity.QAMessage, error) {
	return s.factory.NewUnitOfWork(ctx).QAMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.UserOwnedBy{UserID: userId},
		specification.WithScope(scope.OrderByCreatedAsc),
	)
}

func (s *GormConversationStore) GetNote(ctx context.Context, noteId int64, userId uuid.UUID) (*entity.Note, error) {
	return s.factory.NewUnitOfWork(ctx).NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.UserOwnedBy{UserID: userId},
	)
}

func (s *GormConversationStore) UpdateNoteSummary(ctx context.Context, noteId int64, userId uuid.UUID, summary string) error {
	updated, err := s.factory.NewUnitOfWork(ctx).NoteRepository().UpdateSummary(ctx, summary,
		specification.ByID{ID: noteId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if updated == 0 {
		return contract.ErrNoteNotFound
	}
	return nil
}
