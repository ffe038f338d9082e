package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iapprendre/catalog-platform/internal/chat"
	"github.com/iapprendre/catalog-platform/internal/model"
	"github.com/iapprendre/catalog-platform/internal/service"
	"github.com/iapprendre/catalog-platform/pkg/logger"
)

func newChatRouter(t *testing.T) *chi.Mux {
	t.Helper()

	responder := chat.NewRuleResponder(chat.DefaultRules(), chat.DefaultFallback, 0)
	svc := service.NewSessionService(responder, nil, time.Hour, logger.NewNop())

	h := NewChatHandler(svc, logger.NewNop())

	r := chi.NewRouter()
	r.Route("/api/v1/chat", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", h.Delete)
			r.Get("/messages", h.Transcript)
			r.Post("/messages", h.Send)
		})
	})
	return r
}

func createSession(t *testing.T, router http.Handler) model.CreateSessionResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp model.CreateSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func sendMessage(t *testing.T, router http.Handler, sessionID, text string) (*httptest.ResponseRecorder, model.SendMessageResponse) {
	t.Helper()

	body, err := json.Marshal(model.SendMessageRequest{Text: text})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/"+sessionID+"/messages", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp model.SendMessageResponse
	if rec.Code == http.StatusCreated || rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestCreateSessionSeedsGreeting(t *testing.T) {
	router := newChatRouter(t)

	created := createSession(t, router)

	require.Len(t, created.Messages, 1)
	assert.Equal(t, model.SenderAssistant, created.Messages[0].Sender)
	assert.Equal(t, chat.Greeting, created.Messages[0].Text)
	assert.Equal(t, model.TurnIdle, created.TurnState)
}

func TestSendMessageResolvesTurn(t *testing.T) {
	router := newChatRouter(t)
	created := createSession(t, router)

	rec, resp := sendMessage(t, router, created.SessionID, "bonjour")

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, resp.UserMessage)
	require.NotNil(t, resp.AssistantMessage)
	assert.Equal(t, "bonjour", resp.UserMessage.Text)
	assert.Equal(t, model.TurnIdle, resp.TurnState)
}

func TestSendBlankMessageIsSilentNoOp(t *testing.T) {
	router := newChatRouter(t)
	created := createSession(t, router)

	rec, resp := sendMessage(t, router, created.SessionID, "   ")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, resp.UserMessage)
	assert.Nil(t, resp.AssistantMessage)
}

func TestSendToUnknownSession(t *testing.T) {
	router := newChatRouter(t)

	rec, _ := sendMessage(t, router, "019071f2-0000-7000-8000-000000000000", "bonjour")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendWithMalformedSessionID(t *testing.T) {
	router := newChatRouter(t)

	rec, _ := sendMessage(t, router, "not-a-uuid", "bonjour")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscriptGrowsWithTurns(t *testing.T) {
	router := newChatRouter(t)
	created := createSession(t, router)

	sendMessage(t, router, created.SessionID, "question de grammaire")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/"+created.SessionID+"/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.TranscriptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Messages, 3)
	assert.Equal(t, model.SenderUser, resp.Messages[1].Sender)
	assert.Equal(t, model.SenderAssistant, resp.Messages[2].Sender)
}

func TestDeleteSession(t *testing.T) {
	router := newChatRouter(t)
	created := createSession(t, router)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/chat/"+created.SessionID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/chat/"+created.SessionID+"/messages", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
