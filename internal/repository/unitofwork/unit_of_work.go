package unitofwork

import (
	"context"

	"querynotes-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	QASessionRepository() contract.QASessionRepository
	QAMessageRepository() contract.QAMessageRepository
	NoteRepository() contract.NoteRepository
}
