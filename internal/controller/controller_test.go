package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"querynotes-be/internal/constant"
	"querynotes-be/internal/dto"
	"querynotes-be/internal/entity"
	"querynotes-be/internal/pkg/logger"
	"querynotes-be/internal/pkg/serverutils"
	"querynotes-be/internal/repository/memory"
	"querynotes-be/internal/service"
	"querynotes-be/pkg/llm"
	"querynotes-be/pkg/llm/factory"
	"querynotes-be/pkg/llm/llmtest"
	"querynotes-be/pkg/richtext"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "super-secret-jwt-token-with-at-least-32-characters"
	noteText   = "Quarterly planning: the launch moves to March 3rd, the budget is capped at 40k and hiring pauses until Q3."
)

type testServer struct {
	app      *fiber.App
	store    *memory.ConversationStore
	primary  *llmtest.Provider
	fallback *llmtest.Provider
	userId   uuid.UUID
	token    string
	noteId   int64
}

func newTestServer(t *testing.T, primary, fallback *llmtest.Provider) *testServer {
	t.Helper()

	s := &testServer{
		store:    memory.NewConversationStore(),
		primary:  primary,
		fallback: fallback,
		userId:   uuid.New(),
	}

	note := &entity.Note{UserId: s.userId, Title: "Planning", Content: richtext.PlainText(noteText)}
	s.store.PutNote(note)
	s.noteId = note.Id

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": s.userId.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	s.token = token

	primaryDesc := llm.Descriptor{Key: "siliconflow", Name: "SiliconFlow"}
	fallbackDesc := llm.Descriptor{Key: "deepseek", Name: "DeepSeek Official"}
	connector := &llmtest.Connector{Providers: map[string]*llmtest.Provider{"siliconflow": primary}}
	var fb *llm.Descriptor
	if fallback != nil {
		connector.Providers["deepseek"] = fallback
		fb = &fallbackDesc
	}
	models := factory.NewSmartProvider(primaryDesc, fb, connector.Connect)

	log := logger.NewNopLogger()
	qaService := service.NewQAService(s.store, models, nil, log)
	summaryService := service.NewSummaryService(s.store, models, nil, log)

	s.app = fiber.New()
	s.app.Use(serverutils.ErrorHandlerMiddleware(log))
	api := s.app.Group("/api")
	jwtMiddleware := serverutils.JwtMiddleware(testSecret)
	NewHealthController(models).RegisterRoutes(api)
	NewQAController(qaService, log).RegisterRoutes(api, jwtMiddleware)
	NewSummaryController(summaryService).RegisterRoutes(api, jwtMiddleware)

	return s
}

func (s *testServer) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+s.token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) serverutils.BaseResponse[T] {
	t.Helper()
	var body serverutils.BaseResponse[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func chatBody(noteId int64, sessionId *int64, question string) string {
	payload := map[string]interface{}{
		"messages": []map[string]interface{}{{"role": "user", "content": question}},
		"noteId":   noteId,
	}
	if sessionId != nil {
		payload["sessionId"] = *sessionId
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func TestChat_StreamsAnswer(t *testing.T) {
	s := newTestServer(t, &llmtest.Provider{Chunks: []string{"The launch ", "is on ", "March 3rd."}}, &llmtest.Provider{Reply: "unused"})

	resp := s.do(t, "POST", "/api/chat", chatBody(s.noteId, nil, "When is the launch?"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, fiber.MIMETextPlainCharsetUTF8, resp.Header.Get("Content-Type"))
	assert.Equal(t, "SiliconFlow", resp.Header.Get(HeaderAIProvider))

	sessionId, err := strconv.ParseInt(resp.Header.Get(HeaderSessionId), 10, 64)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "The launch is on March 3rd.", string(body))

	require.Eventually(t, func() bool {
		messages, err := s.store.ListMessages(context.Background(), sessionId, s.userId)
		return err == nil && len(messages) == 2
	}, time.Second, 10*time.Millisecond)

	follow := s.do(t, "POST", "/api/chat", chatBody(s.noteId, &sessionId, "And the budget?"))
	require.Equal(t, fiber.StatusOK, follow.StatusCode)
	assert.Equal(t, strconv.FormatInt(sessionId, 10), follow.Header.Get(HeaderSessionId))
	_, _ = io.ReadAll(follow.Body)

	sessions, err := s.store.ListSessions(context.Background(), s.noteId, s.userId)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestChat_FallbackProviderHeader(t *testing.T) {
	s := newTestServer(t, &llmtest.Provider{Err: errors.New("connection refused")}, &llmtest.Provider{Reply: "from fallback"})

	resp := s.do(t, "POST", "/api/chat", chatBody(s.noteId, nil, "hi"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "DeepSeek Official", resp.Header.Get(HeaderAIProvider))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "from fallback", string(body))
}

func TestChat_Errors(t *testing.T) {
	errDown := errors.New("connection refused")

	tests := []struct {
		name        string
		primary     *llmtest.Provider
		fallback    *llmtest.Provider
		body        func(s *testServer) string
		noAuth      bool
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "malformed body",
			body:        func(s *testServer) string { return `{"messages":` },
			wantStatus:  400,
			wantMessage: constant.MsgInvalidRequestBody,
		},
		{
			name:       "empty messages",
			body:       func(s *testServer) string { return `{"messages":[],"noteId":1}` },
			wantStatus: 400,
		},
		{
			name:       "unknown role",
			body:       func(s *testServer) string { return `{"messages":[{"role":"robot","content":"hi"}],"noteId":1}` },
			wantStatus: 400,
		},
		{
			name:        "missing note id",
			body:        func(s *testServer) string { return `{"messages":[{"role":"user","content":"hi"}]}` },
			wantStatus:  400,
			wantMessage: constant.MsgChatNoteIdRequired,
		},
		{
			name:        "no user message",
			body:        func(s *testServer) string { return `{"messages":[{"role":"assistant","content":"hi"}],"noteId":1}` },
			wantStatus:  400,
			wantMessage: constant.MsgNoUserMessage,
		},
		{
			name:       "unauthenticated",
			body:       func(s *testServer) string { return chatBody(s.noteId, nil, "hi") },
			noAuth:     true,
			wantStatus: 401,
		},
		{
			name:        "all providers down",
			primary:     &llmtest.Provider{Err: errDown},
			fallback:    &llmtest.Provider{Err: errDown},
			body:        func(s *testServer) string { return chatBody(s.noteId, nil, "hi") },
			wantStatus:  503,
			wantMessage: factory.MsgBothProvidersFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := tt.primary
			if primary == nil {
				primary = &llmtest.Provider{Reply: "ok"}
			}
			s := newTestServer(t, primary, tt.fallback)

			req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(tt.body(s)))
			req.Header.Set("Content-Type", "application/json")
			if !tt.noAuth {
				req.Header.Set("Authorization", "Bearer "+s.token)
			}
			resp, err := s.app.Test(req, -1)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decode[any](t, resp)
			assert.False(t, body.Success)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body.Message)
				assert.Equal(t, tt.wantMessage, body.Error)
			}
		})
	}
}

func TestListSessionsAndMessages(t *testing.T) {
	s := newTestServer(t, &llmtest.Provider{Reply: "Forty thousand."}, nil)

	resp := s.do(t, "POST", "/api/chat", chatBody(s.noteId, nil, "What is the budget?"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	_, _ = io.ReadAll(resp.Body)
	sessionId := resp.Header.Get(HeaderSessionId)

	sessions := s.do(t, "GET", "/api/sessions?noteId="+strconv.FormatInt(s.noteId, 10), "")
	require.Equal(t, fiber.StatusOK, sessions.StatusCode)
	sessionsBody := decode[dto.ListSessionsResponse](t, sessions)
	require.Len(t, sessionsBody.Data.Sessions, 1)
	assert.Equal(t, "What is the budget?", sessionsBody.Data.Sessions[0].Title)
	assert.Equal(t, sessionId, strconv.FormatInt(sessionsBody.Data.Sessions[0].Id, 10))

	messages := s.do(t, "GET", "/api/messages?sessionId="+sessionId, "")
	require.Equal(t, fiber.StatusOK, messages.StatusCode)
	messagesBody := decode[dto.ListMessagesResponse](t, messages)
	require.Len(t, messagesBody.Data.Messages, 2)
	assert.Equal(t, "user", messagesBody.Data.Messages[0].Role)
	assert.Equal(t, "What is the budget?", messagesBody.Data.Messages[0].Content.Text())
	assert.Equal(t, "Forty thousand.", messagesBody.Data.Messages[1].Content.Text())
}

func TestListing_QueryValidation(t *testing.T) {
	s := newTestServer(t, &llmtest.Provider{Reply: "ok"}, nil)

	tests := []struct {
		path        string
		wantMessage string
	}{
		{"/api/sessions", constant.MsgNoteIdRequired},
		{"/api/sessions?noteId=abc", constant.MsgInvalidNoteId},
		{"/api/sessions?noteId=0", constant.MsgInvalidNoteId},
		{"/api/messages", constant.MsgSessionIdRequired},
		{"/api/messages?sessionId=-1", constant.MsgInvalidSessionId},
		{"/api/messages?sessionId=1.5", constant.MsgInvalidSessionId},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := s.do(t, "GET", tt.path, "")
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.wantMessage, decode[any](t, resp).Message)
		})
	}
}

func TestGenerateSummary(t *testing.T) {
	errDown := errors.New("503 from upstream")

	tests := []struct {
		name        string
		primary     *llmtest.Provider
		path        func(s *testServer) string
		content     string
		wantStatus  int
		wantMessage string
		wantSummary string
	}{
		{
			name:        "success",
			primary:     &llmtest.Provider{Reply: " Launch on March 3rd. "},
			path:        func(s *testServer) string { return "/api/notes/" + strconv.FormatInt(s.noteId, 10) + "/summary" },
			content:     noteText,
			wantStatus:  200,
			wantSummary: "Launch on March 3rd.",
		},
		{
			name:        "invalid id",
			primary:     &llmtest.Provider{Reply: "ok"},
			path:        func(s *testServer) string { return "/api/notes/abc/summary" },
			content:     noteText,
			wantStatus:  400,
			wantMessage: constant.MsgSummaryInvalidNoteId,
		},
		{
			name:        "too short",
			primary:     &llmtest.Provider{Reply: "ok"},
			path:        func(s *testServer) string { return "/api/notes/" + strconv.FormatInt(s.noteId, 10) + "/summary" },
			content:     "tiny",
			wantStatus:  422,
			wantMessage: constant.MsgSummaryContentTooShort,
		},
		{
			name:        "providers down",
			primary:     &llmtest.Provider{Err: errDown},
			path:        func(s *testServer) string { return "/api/notes/" + strconv.FormatInt(s.noteId, 10) + "/summary" },
			content:     noteText,
			wantStatus:  503,
			wantMessage: constant.MsgSummaryProvidersUnavailable,
		},
		{
			name:        "unknown note",
			primary:     &llmtest.Provider{Reply: "ok"},
			path:        func(s *testServer) string { return "/api/notes/987654/summary" },
			content:     noteText,
			wantStatus:  500,
			wantMessage: constant.MsgSummarySaveFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.primary, nil)
			body, _ := json.Marshal(map[string]string{"note_content": tt.content})

			resp := s.do(t, "POST", tt.path(s), string(body))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			res := decode[dto.GenerateSummaryResponse](t, resp)
			if tt.wantStatus == 200 {
				assert.True(t, res.Success)
				assert.Equal(t, tt.wantSummary, res.Data.Summary)
				return
			}
			assert.False(t, res.Success)
			assert.Equal(t, tt.wantMessage, res.Error)
		})
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &llmtest.Provider{Reply: "ok"}, &llmtest.Provider{Reply: "ok"})

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/health", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[dto.HealthResponse](t, resp)
	assert.Equal(t, dto.HealthResponse{Status: "ok", Primary: "SiliconFlow", Fallback: "DeepSeek Official"}, body.Data)
}
