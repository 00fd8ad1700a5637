package entity

import (
	"time"

	"querynotes-be/pkg/richtext"

	"github.com/google/uuid"
)

// Note is read for chat context and written only through its summary.
type Note struct {
	Id        int64
	UserId    uuid.UUID
	Title     string
	Content   richtext.Content
	Summary   *string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
