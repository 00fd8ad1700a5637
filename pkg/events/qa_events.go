package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeQASessionCreated     = "QA_SESSION_CREATED"
	TypeQAAnswerCompleted    = "QA_ANSWER_COMPLETED"
	TypeAIProviderFailover   = "AI_PROVIDER_FAILOVER"
	TypeNoteSummaryGenerated = "NOTE_SUMMARY_GENERATED"
)

func QASessionCreated(sessionId, noteId int64, userId uuid.UUID, title string) BaseEvent {
	return BaseEvent{
		Type: TypeQASessionCreated,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"note_id":    noteId,
			"user_id":    userId.String(),
			"title":      title,
		},
		OccurredAt: time.Now(),
	}
}

// QAAnswerCompleted reports a fully delivered answer. persisted is false when
// the assistant message could not be stored.
func QAAnswerCompleted(sessionId, noteId int64, userId uuid.UUID, provider string, answerLength int, persisted bool) BaseEvent {
	return BaseEvent{
		Type: TypeQAAnswerCompleted,
		Data: map[string]interface{}{
			"session_id":    sessionId,
			"note_id":       noteId,
			"user_id":       userId.String(),
			"provider":      provider,
			"answer_length": answerLength,
			"persisted":     persisted,
		},
		OccurredAt: time.Now(),
	}
}

func AIProviderFailover(operation, from, to string) BaseEvent {
	return BaseEvent{
		Type: TypeAIProviderFailover,
		Data: map[string]interface{}{
			"operation": operation,
			"from":      from,
			"to":        to,
		},
		OccurredAt: time.Now(),
	}
}

func NoteSummaryGenerated(noteId int64, userId uuid.UUID, provider string, summaryLength int) BaseEvent {
	return BaseEvent{
		Type: TypeNoteSummaryGenerated,
		Data: map[string]interface{}{
			"note_id":        noteId,
			"user_id":        userId.String(),
			"provider":       provider,
			"summary_length": summaryLength,
		},
		OccurredAt: time.Now(),
	}
}
