package model

import (
	"time"

	"github.com/google/uuid"
)

type QASession struct {
	Id        int64     `gorm:"primaryKey;autoIncrement"`
	NoteId    int64     `gorm:"not null;index"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (QASession) TableName() string {
	return "qa_sessions"
}
