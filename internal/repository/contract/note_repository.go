package contract

import (
	"context"

	"querynotes-be/internal/entity"
	"querynotes-be/internal/repository/specification"
)

type NoteRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	// UpdateSummary sets the summary column on every matching row and
	// returns how many rows it touched.
	UpdateSummary(ctx context.Context, summary string, specs ...specification.Specification) (int64, error)
}
