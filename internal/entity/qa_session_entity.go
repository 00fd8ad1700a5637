package entity

import (
	"time"

	"github.com/google/uuid"
)

// QASession is one conversation thread about a single note.
type QASession struct {
	Id        int64
	NoteId    int64
	UserId    uuid.UUID
	Title     string
	CreatedAt time.Time
}
