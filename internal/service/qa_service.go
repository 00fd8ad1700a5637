package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"querynotes-be/internal/constant"
	"querynotes-be/internal/dto"
	"querynotes-be/internal/entity"
	"querynotes-be/internal/pkg/apperror"
	"querynotes-be/internal/pkg/logger"
	"querynotes-be/internal/repository/contract"
	"querynotes-be/pkg/events"
	"querynotes-be/pkg/llm"
	"querynotes-be/pkg/llm/factory"
	"querynotes-be/pkg/richtext"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
)

const answerPersistTimeout = 10 * time.Second

type IQAService interface {
	ListSessions(ctx context.Context, userId uuid.UUID, noteId int64) (*dto.ListSessionsResponse, error)
	ListMessages(ctx context.Context, userId uuid.UUID, sessionId int64) (*dto.ListMessagesResponse, error)
	// ContinueConversation starts streaming the next assistant answer. The
	// answer is stored once the caller has drained the returned stream.
	ContinueConversation(ctx context.Context, userId uuid.UUID, request *dto.ContinueConversationRequest) (*dto.ConversationStream, error)
}

type qaService struct {
	store     contract.ConversationStore
	models    factory.ModelResolver
	publisher events.Publisher
	log       logger.ILogger
}

func NewQAService(
	store contract.ConversationStore,
	models factory.ModelResolver,
	publisher events.Publisher,
	log logger.ILogger,
) IQAService {
	return &qaService{
		store:     store,
		models:    models,
		publisher: publisher,
		log:       log,
	}
}

func (s *qaService) ListSessions(ctx context.Context, userId uuid.UUID, noteId int64) (*dto.ListSessionsResponse, error) {
	if noteId <= 0 {
		return nil, apperror.Validation(constant.MsgInvalidNoteId)
	}
	if userId == uuid.Nil {
		return nil, apperror.Unauthorized(constant.MsgUnauthorized)
	}

	sessions, err := s.store.ListSessions(ctx, noteId, userId)
	if err != nil {
		s.log.Error("QA", "Error fetching QA sessions", map[string]interface{}{
			"note_id": noteId,
			"error":   err.Error(),
		})
		return nil, apperror.Internal(constant.MsgFailedToFetchSessions, err)
	}

	res := make([]dto.QASessionResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, dto.QASessionResponse{
			Id:        session.Id,
			Title:     session.Title,
			CreatedAt: session.CreatedAt,
		})
	}
	return &dto.ListSessionsResponse{Sessions: res}, nil
}

func (s *qaService) ListMessages(ctx context.Context, userId uuid.UUID, sessionId int64) (*dto.ListMessagesResponse, error) {
	if sessionId <= 0 {
		return nil, apperror.Validation(constant.MsgInvalidSessionId)
	}
	if userId == uuid.Nil {
		return nil, apperror.Unauthorized(constant.MsgUnauthorized)
	}

	messages, err := s.store.ListMessages(ctx, sessionId, userId)
	if err != nil {
		s.log.Error("QA", "Error fetching QA messages", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil, apperror.Internal(constant.MsgFailedToFetchMessages, err)
	}

	res := make([]dto.QAMessageResponse, 0, len(messages))
	for _, msg := range messages {
		res = append(res, dto.QAMessageResponse{
			Id:      strconv.FormatInt(msg.Id, 10),
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return &dto.ListMessagesResponse{Messages: res}, nil
}

func (s *qaService) ContinueConversation(ctx context.Context, userId uuid.UUID, request *dto.ContinueConversationRequest) (*dto.ConversationStream, error) {
	if request.NoteId == 0 {
		return nil, apperror.Validation(constant.MsgChatNoteIdRequired)
	}
	if request.NoteId < 0 {
		return nil, apperror.Validation(constant.MsgChatInvalidNoteId)
	}

	var sessionId int64
	if request.SessionId != nil {
		if *request.SessionId < 0 {
			return nil, apperror.Validation(constant.MsgChatInvalidSessionId)
		}
		sessionId = *request.SessionId
	}

	lastUserMessage := findLastUserMessage(request.Messages)
	if lastUserMessage == nil {
		return nil, apperror.Validation(constant.MsgNoUserMessage)
	}

	if userId == uuid.Nil {
		return nil, apperror.Unauthorized(constant.MsgUnauthorized)
	}

	if sessionId == 0 {
		session := &entity.QASession{
			NoteId: request.NoteId,
			UserId: userId,
			Title:  sessionTitle(lastUserMessage.Content),
		}
		if err := s.store.CreateSession(ctx, session); err != nil {
			s.log.Error("QA", "Failed to create new session", map[string]interface{}{
				"note_id": request.NoteId,
				"error":   err.Error(),
			})
			return nil, apperror.Internal(constant.MsgSessionCreateFailed, err)
		}
		sessionId = session.Id
		s.publish(ctx, events.QASessionCreated(session.Id, session.NoteId, userId, session.Title))
	}

	var noteContent string
	wg := conc.NewWaitGroup()
	wg.Go(func() {
		s.saveUserMessage(ctx, sessionId, userId, lastUserMessage.Content)
	})
	wg.Go(func() {
		noteContent = s.loadNoteContent(ctx, request.NoteId, userId)
	})
	wg.Wait()

	history := make([]llm.Message, 0, len(request.Messages)+1)
	history = append(history, llm.Message{
		Role:    llm.RoleSystem,
		Content: constant.BuildQASystemPrompt(noteContent),
	})
	for _, msg := range request.Messages {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content.Text()})
	}

	result, err := factory.AttemptWithFallback(ctx, s.models, s.log, factory.Call[llm.Stream]{
		Operation: "chat",
		Invoke: func(ctx context.Context, model llm.LLMProvider) (llm.Stream, error) {
			return model.Stream(ctx, history,
				llm.WithTemperature(constant.QATemperature),
				llm.WithMaxTokens(constant.QAMaxTokens),
			)
		},
	})
	if err != nil {
		return nil, apperror.Unavailable(err.Error(), err)
	}

	if result.UsedFallback {
		s.publish(ctx, events.AIProviderFailover("chat", s.models.Primary().Name, result.Provider.Name))
	}

	noteId := request.NoteId
	provider := result.Provider.Name
	stream := llm.OnFinish(result.Value, func(answer string) {
		s.saveAnswer(ctx, sessionId, noteId, userId, provider, answer)
	})

	return &dto.ConversationStream{
		SessionId: sessionId,
		Provider:  provider,
		Stream:    stream,
	}, nil
}

// saveUserMessage is best-effort: the answer is still produced when the
// question could not be stored.
func (s *qaService) saveUserMessage(ctx context.Context, sessionId int64, userId uuid.UUID, content richtext.Content) {
	err := s.store.AppendMessage(ctx, &entity.QAMessage{
		SessionId: sessionId,
		UserId:    userId,
		Role:      constant.QAMessageRoleUser,
		Content:   content,
	})
	if err != nil {
		s.log.Warn("QA", "Failed to save user message", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

func (s *qaService) loadNoteContent(ctx context.Context, noteId int64, userId uuid.UUID) string {
	note, err := s.store.GetNote(ctx, noteId, userId)
	if err != nil {
		s.log.Warn("QA", "Failed to load note content", map[string]interface{}{
			"note_id": noteId,
			"error":   err.Error(),
		})
		return constant.EmptyNotePlaceholder
	}
	if note == nil {
		return constant.EmptyNotePlaceholder
	}

	text := note.Content.Text()
	if strings.TrimSpace(text) == "" {
		return constant.EmptyNotePlaceholder
	}
	return text
}

// saveAnswer runs after the client received the whole answer, possibly after
// the request context is gone.
func (s *qaService) saveAnswer(parent context.Context, sessionId, noteId int64, userId uuid.UUID, provider, answer string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), answerPersistTimeout)
	defer cancel()

	err := s.store.AppendMessage(ctx, &entity.QAMessage{
		SessionId: sessionId,
		UserId:    userId,
		Role:      constant.QAMessageRoleAssistant,
		Content:   richtext.PlainText(answer),
	})
	if err != nil {
		s.log.Error("QA", "Failed to save assistant message", map[string]interface{}{
			"session_id": sessionId,
			"provider":   provider,
			"error":      err.Error(),
		})
	}

	s.publish(ctx, events.QAAnswerCompleted(sessionId, noteId, userId, provider, len(answer), err == nil))
}

func (s *qaService) publish(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.publisher, s.log, event)
}

func findLastUserMessage(messages []dto.ChatMessageDTO) *dto.ChatMessageDTO {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == constant.QAMessageRoleUser {
			return &messages[i]
		}
	}
	return nil
}

// sessionTitle uses the first text of the question, cut to
// SessionTitleMaxLength characters.
func sessionTitle(content richtext.Content) string {
	title := content.FirstText()
	if runes := []rune(title); len(runes) > constant.SessionTitleMaxLength {
		title = string(runes[:constant.SessionTitleMaxLength])
	}
	if strings.TrimSpace(title) == "" {
		return constant.DefaultSessionTitle
	}
	return title
}
