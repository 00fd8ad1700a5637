package contract

import (
	"context"

	"querynotes-be/internal/entity"
	"querynotes-be/internal/repository/specification"
)

// QAMessageRepository is append-only.
type QAMessageRepository interface {
	Create(ctx context.Context, message *entity.QAMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QAMessage, error)
}
