package service

import (
	"context"
	"sync"

	"querynotes-be/internal/entity"
	"querynotes-be/internal/repository/memory"
	"querynotes-be/pkg/events"
	"querynotes-be/pkg/llm"
	"querynotes-be/pkg/llm/factory"
	"querynotes-be/pkg/llm/llmtest"

	"github.com/google/uuid"
)

var (
	primaryDesc = llm.Descriptor{
		Key:     "siliconflow",
		Name:    "SiliconFlow",
		BaseURL: "https://api.siliconflow.cn/v1",
		ModelID: "Pro/deepseek-ai/DeepSeek-V3",
		APIKey:  "sk-sf",
	}
	fallbackDesc = llm.Descriptor{
		Key:     "deepseek",
		Name:    "DeepSeek Official",
		BaseURL: "https://api.deepseek.com/v1",
		ModelID: "deepseek-chat",
		APIKey:  "sk-ds",
	}
)

// newModels wires scripted providers. A nil fallback leaves it unconfigured.
func newModels(primary, fallback *llmtest.Provider) factory.ModelResolver {
	connector := &llmtest.Connector{Providers: map[string]*llmtest.Provider{primaryDesc.Key: primary}}
	var fb *llm.Descriptor
	if fallback != nil {
		connector.Providers[fallbackDesc.Key] = fallback
		desc := fallbackDesc
		fb = &desc
	}
	return factory.NewSmartProvider(primaryDesc, fb, connector.Connect)
}

// faultyStore is the in-memory store with injectable failures.
type faultyStore struct {
	*memory.ConversationStore

	createSessionErr   error
	appendUserErr      error
	appendAssistantErr error
	listErr            error
	getNoteErr         error
	updateSummaryErr   error

	mu               sync.Mutex
	appendCalls      map[string]int
	assistantCtxDone bool
}

func newFaultyStore() *faultyStore {
	return &faultyStore{
		ConversationStore: memory.NewConversationStore(),
		appendCalls:       make(map[string]int),
	}
}

func (s *faultyStore) CreateSession(ctx context.Context, session *entity.QASession) error {
	if s.createSessionErr != nil {
		return s.createSessionErr
	}
	return s.ConversationStore.CreateSession(ctx, session)
}

func (s *faultyStore) AppendMessage(ctx context.Context, message *entity.QAMessage) error {
	s.mu.Lock()
	s.appendCalls[message.Role]++
	if message.Role == "assistant" {
		s.assistantCtxDone = ctx.Err() != nil
	}
	s.mu.Unlock()

	if message.Role == "user" && s.appendUserErr != nil {
		return s.appendUserErr
	}
	if message.Role == "assistant" && s.appendAssistantErr != nil {
		return s.appendAssistantErr
	}
	return s.ConversationStore.AppendMessage(ctx, message)
}

func (s *faultyStore) ListSessions(ctx context.Context, noteId int64, userId uuid.UUID) ([]*entity.QASession, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.ConversationStore.ListSessions(ctx, noteId, userId)
}

func (s *faultyStore) ListMessages(ctx context.Context, sessionId int64, userId uuid.UUID) ([]*entity.QAMessage, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.ConversationStore.ListMessages(ctx, sessionId, userId)
}

func (s *faultyStore) GetNote(ctx context.Context, noteId int64, userId uuid.UUID) (*entity.Note, error) {
	if s.getNoteErr != nil {
		return nil, s.getNoteErr
	}
	return s.ConversationStore.GetNote(ctx, noteId, userId)
}

func (s *faultyStore) UpdateNoteSummary(ctx context.Context, noteId int64, userId uuid.UUID, summary string) error {
	if s.updateSummaryErr != nil {
		return s.updateSummaryErr
	}
	return s.ConversationStore.UpdateNoteSummary(ctx, noteId, userId, summary)
}

func (s *faultyStore) appends(role string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendCalls[role]
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}
