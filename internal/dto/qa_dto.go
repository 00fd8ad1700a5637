package dto

import (
	"time"

	"querynotes-be/pkg/llm"
	"querynotes-be/pkg/richtext"
)

type ChatMessageDTO struct {
	Role    string           `json:"role" validate:"required,oneof=user assistant system"`
	Content richtext.Content `json:"content"`
}

type ContinueConversationRequest struct {
	Messages  []ChatMessageDTO `json:"messages" validate:"required,min=1,dive"`
	NoteId    int64            `json:"noteId"`
	SessionId *int64           `json:"sessionId,omitempty"`
}

// ConversationStream is a started answer. Stream must be drained or closed by
// the caller.
type ConversationStream struct {
	SessionId int64
	Provider  string
	Stream    llm.Stream
}

type QASessionResponse struct {
	Id        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type ListSessionsResponse struct {
	Sessions []QASessionResponse `json:"sessions"`
}

type QAMessageResponse struct {
	Id      string           `json:"id"`
	Role    string           `json:"role"`
	Content richtext.Content `json:"content"`
}

type ListMessagesResponse struct {
	Messages []QAMessageResponse `json:"messages"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Primary  string `json:"primary"`
	Fallback string `json:"fallback,omitempty"`
}
