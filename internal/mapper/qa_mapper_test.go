package mapper

import (
	"testing"
	"time"

	"querynotes-be/internal/entity"
	"querynotes-be/internal/model"
	"querynotes-be/pkg/richtext"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestQAMapper_MessageRoundTripKeepsShape(t *testing.T) {
	m := NewQAMapper()
	userId := uuid.New()

	tests := []struct {
		name     string
		content  string
		wantText string
	}{
		{"plain string", `"What is the deadline?"`, "What is the deadline?"},
		{"message parts", `[{"type":"text","text":"Summarize "},{"type":"text","text":"this"}]`, "Summarize this"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := &model.QAMessage{
				Id:        3,
				SessionId: 7,
				UserId:    userId,
				Role:      "user",
				Content:   datatypes.JSON(tt.content),
				CreatedAt: time.Now(),
			}

			e := m.MessageToEntity(stored)
			assert.Equal(t, tt.wantText, e.Content.Text())

			back, err := m.MessageToModel(e)
			require.NoError(t, err)
			assert.JSONEq(t, tt.content, string(back.Content))
			assert.Equal(t, int64(7), back.SessionId)
		})
	}
}

func TestNoteMapper_ToEntity(t *testing.T) {
	summary := "Short."
	n := NewNoteMapper().ToEntity(&model.Note{
		Id:      11,
		UserId:  uuid.New(),
		Content: datatypes.JSON(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Hello"}]}]}`),
		Summary: &summary,
	})

	assert.Equal(t, "Hello", n.Content.Text())
	assert.Nil(t, n.UpdatedAt)
	require.NotNil(t, n.Summary)
	assert.Equal(t, summary, *n.Summary)

	assert.Nil(t, NewQAMapper().SessionToEntity(nil))

	var empty *entity.Note
	mdl, err := NewNoteMapper().ToModel(empty)
	assert.NoError(t, err)
	assert.Nil(t, mdl)

	plain, err := NewNoteMapper().ToModel(&entity.Note{Content: richtext.PlainText("raw text")})
	require.NoError(t, err)
	assert.Equal(t, `"raw text"`, string(plain.Content))
}
