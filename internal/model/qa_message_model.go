package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QAMessage struct {
	Id        int64          `gorm:"primaryKey;autoIncrement"`
	SessionId int64          `gorm:"not null;index"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role      string         `gorm:"type:varchar(20);not null"`
	Content   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (QAMessage) TableName() string {
	return "qa_messages"
}
