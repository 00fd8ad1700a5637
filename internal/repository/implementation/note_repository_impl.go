package implementation

import (
	"context"
	"errors"

	"querynotes-be/internal/entity"
	"querynotes-be/internal/mapper"
	"querynotes-be/internal/model"
	"querynotes-be/internal/repository/contract"
	"querynotes-be/internal/repository/specification"

	"gorm.io/gorm"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	var m model.Note
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) UpdateSummary(ctx context.Context, summary string, specs ...specification.Specification) (int64, error) {
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Note{}), specs...)
	result := query.Update("summary", summary)
	return result.RowsAffected, result.Error
}
