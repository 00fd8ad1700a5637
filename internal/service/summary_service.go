package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"querynotes-be/internal/constant"
	"querynotes-be/internal/dto"
	"querynotes-be/internal/pkg/logger"
	"querynotes-be/internal/repository/contract"
	"querynotes-be/pkg/events"
	"querynotes-be/pkg/llm"
	"querynotes-be/pkg/llm/factory"
	"querynotes-be/pkg/richtext"

	"github.com/google/uuid"
)

var errBlankSummary = errors.New("model returned an empty summary")

type ISummaryService interface {
	// GenerateSummary never returns a Go error; failures are reported in
	// the result with a Reason.
	GenerateSummary(ctx context.Context, userId uuid.UUID, request *dto.GenerateSummaryRequest) *dto.GenerateSummaryResult
}

type summaryService struct {
	store     contract.ConversationStore
	models    factory.ModelResolver
	publisher events.Publisher
	log       logger.ILogger
}

func NewSummaryService(
	store contract.ConversationStore,
	models factory.ModelResolver,
	publisher events.Publisher,
	log logger.ILogger,
) ISummaryService {
	return &summaryService{
		store:     store,
		models:    models,
		publisher: publisher,
		log:       log,
	}
}

func (s *summaryService) GenerateSummary(ctx context.Context, userId uuid.UUID, request *dto.GenerateSummaryRequest) (result *dto.GenerateSummaryResult) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("SUMMARY", "Unexpected error during summary generation", map[string]interface{}{
				"note_id": request.NoteId,
				"panic":   fmt.Sprint(r),
			})
			result = summaryFailure(dto.SummaryReasonUnexpected, constant.MsgSummaryUnexpected)
		}
	}()

	noteId, ok := parseNoteId(request.NoteId)
	if !ok {
		s.log.Warn("SUMMARY", "Invalid ID provided for noteId", map[string]interface{}{"note_id": request.NoteId})
		return summaryFailure(dto.SummaryReasonInvalidNoteId, constant.MsgSummaryInvalidNoteId)
	}

	plainText := richtext.FromString(request.NoteContent).Text()
	if utf8.RuneCountInString(strings.TrimSpace(plainText)) < constant.SummaryMinContentLength {
		return summaryFailure(dto.SummaryReasonContentTooShort, constant.MsgSummaryContentTooShort)
	}

	history := []llm.Message{
		{Role: llm.RoleSystem, Content: constant.SummarySystemPrompt},
		{Role: llm.RoleUser, Content: constant.SummaryUserPrompt + plainText},
	}

	generated, err := factory.AttemptWithFallback(ctx, s.models, s.log, factory.Call[string]{
		Operation: "summary",
		Invoke: func(ctx context.Context, model llm.LLMProvider) (string, error) {
			return model.Chat(ctx, history,
				llm.WithTemperature(constant.SummaryTemperature),
				llm.WithMaxTokens(constant.SummaryMaxTokens),
			)
		},
		Validate: func(summary string) error {
			if strings.TrimSpace(summary) == "" {
				return errBlankSummary
			}
			return nil
		},
	})
	if err != nil {
		s.log.Error("SUMMARY", "All AI providers failed", map[string]interface{}{
			"note_id": noteId,
			"error":   err.Error(),
		})
		return summaryFailure(dto.SummaryReasonProvidersUnavailable, constant.MsgSummaryProvidersUnavailable)
	}

	if generated.UsedFallback {
		publishEvent(ctx, s.publisher, s.log, events.AIProviderFailover("summary", s.models.Primary().Name, generated.Provider.Name))
	}

	summary := strings.TrimSpace(generated.Value)
	if err := s.store.UpdateNoteSummary(ctx, noteId, userId, summary); err != nil {
		s.log.Error("SUMMARY", "Error updating note with summary", map[string]interface{}{
			"note_id": noteId,
			"error":   err.Error(),
		})
		return summaryFailure(dto.SummaryReasonSaveFailed, constant.MsgSummarySaveFailed)
	}

	s.log.Info("SUMMARY", "Summary generated with "+generated.Provider.Name, map[string]interface{}{
		"note_id":  noteId,
		"fallback": generated.UsedFallback,
	})
	publishEvent(ctx, s.publisher, s.log, events.NoteSummaryGenerated(noteId, userId, generated.Provider.Name, len(summary)))

	return &dto.GenerateSummaryResult{Success: true, Summary: summary}
}

func summaryFailure(reason, message string) *dto.GenerateSummaryResult {
	return &dto.GenerateSummaryResult{Error: message, Reason: reason}
}

// parseNoteId accepts what a lenient numeric coercion would: surrounding
// spaces, hex literals and integral floats such as "12.0" or "1e3". The
// result must be a positive integer.
func parseNoteId(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, id > 0
	}

	if lower := strings.ToLower(s); strings.HasPrefix(lower, "0x") {
		id, err := strconv.ParseInt(lower[2:], 16, 64)
		return id, err == nil && id > 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || f <= 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
