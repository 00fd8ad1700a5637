package mapper

import (
	"time"

	"querynotes-be/internal/entity"
	"querynotes-be/internal/model"
	"querynotes-be/pkg/richtext"

	"gorm.io/datatypes"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	return &entity.Note{
		Id:        n.Id,
		UserId:    n.UserId,
		Title:     n.Title,
		Content:   richtext.FromRaw(n.Content),
		Summary:   n.Summary,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) (*model.Note, error) {
	if n == nil {
		return nil, nil
	}

	content, err := n.Content.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	return &model.Note{
		Id:        n.Id,
		UserId:    n.UserId,
		Title:     n.Title,
		Content:   datatypes.JSON(content),
		Summary:   n.Summary,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
	}, nil
}
