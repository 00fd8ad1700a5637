package specification

import (
	"gorm.io/gorm"
)

type ByNoteID struct {
	NoteID int64
}

func (s ByNoteID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("note_id = ?", s.NoteID)
}

type BySessionID struct {
	SessionID int64
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}
