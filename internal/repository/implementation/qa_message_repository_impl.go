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

type QAMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QAMapper
}

func NewQAMessageRepository(db *gorm.DB) contract.QAMessageRepository {
	return &QAMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewQAMapper(),
	}
}

func (r *QAMessageRepositoryImpl) Create(ctx context.Context, message *entity.QAMessage) error {
	m, err := r.mapper.MessageToModel(message)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *QAMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QAMessage, error) {
	var models []*model.QAMessage
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.MessagesToEntities(models), nil
}
