package mapper

import (
	"querynotes-be/internal/entity"
	"querynotes-be/internal/model"
	"querynotes-be/pkg/richtext"

	"gorm.io/datatypes"
)

type QAMapper struct{}

func NewQAMapper() *QAMapper {
	return &QAMapper{}
}

// Session Mappers

func (m *QAMapper) SessionToEntity(s *model.QASession) *entity.QASession {
	if s == nil {
		return nil
	}

	return &entity.QASession{
		Id:        s.Id,
		NoteId:    s.NoteId,
		UserId:    s.UserId,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
	}
}

func (m *QAMapper) SessionToModel(s *entity.QASession) *model.QASession {
	if s == nil {
		return nil
	}

	return &model.QASession{
		Id:        s.Id,
		NoteId:    s.NoteId,
		UserId:    s.UserId,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
	}
}

func (m *QAMapper) SessionsToEntities(models []*model.QASession) []*entity.QASession {
	entities := make([]*entity.QASession, len(models))
	for i, s := range models {
		entities[i] = m.SessionToEntity(s)
	}
	return entities
}

// Message Mappers

func (m *QAMapper) MessageToEntity(msg *model.QAMessage) *entity.QAMessage {
	if msg == nil {
		return nil
	}

	return &entity.QAMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		UserId:    msg.UserId,
		Role:      msg.Role,
		Content:   richtext.FromRaw(msg.Content),
		CreatedAt: msg.CreatedAt,
	}
}

func (m *QAMapper) MessageToModel(msg *entity.QAMessage) (*model.QAMessage, error) {
	if msg == nil {
		return nil, nil
	}

	content, err := msg.Content.MarshalJSON()
	if err != nil {
		return nil, err
	}

	return &model.QAMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		UserId:    msg.UserId,
		Role:      msg.Role,
		Content:   datatypes.JSON(content),
		CreatedAt: msg.CreatedAt,
	}, nil
}

func (m *QAMapper) MessagesToEntities(models []*model.QAMessage) []*entity.QAMessage {
	entities := make([]*entity.QAMessage, len(models))
	for i, msg := range models {
		entities[i] = m.MessageToEntity(msg)
	}
	return entities
}
