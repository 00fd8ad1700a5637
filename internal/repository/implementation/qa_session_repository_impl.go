package implementation

import (
	"context"

	"querynotes-be/internal/entity"
	"querynotes-be/internal/mapper"
	"querynotes-be/internal/model"
	"querynotes-be/internal/repository/contract"
	"querynotes-be/internal/repository/specification"

	"gorm.io/gorm"
)

type QASessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QAMapper
}

func NewQASessionRepository(db *gorm.DB) contract.QASessionRepository {
	return &QASessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewQAMapper(),
	}
}

func (r *QASessionRepositoryImpl) Create(ctx context.Context, session *entity.QASession) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *QASessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QASession, error) {
	var models []*model.QASession
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.SessionsToEntities(models), nil
}

func (r *QASessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.QASession{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
