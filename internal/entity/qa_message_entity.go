package entity

import (
	"time"

	"querynotes-be/pkg/richtext"

	"github.com/google/uuid"
)

type QAMessage struct {
	Id        int64
	SessionId int64
	UserId    uuid.UUID
	Role      string
	Content   richtext.Content
	CreatedAt time.Time
}
