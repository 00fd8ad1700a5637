package contract

import (
	"context"

	"querynotes-be/internal/entity"
	"querynotes-be/internal/repository/specification"
)

type QASessionRepository interface {
	Create(ctx context.Context, session *entity.QASession) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QASession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
