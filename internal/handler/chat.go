package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iapprendre/catalog-platform/internal/middleware"
	"github.com/iapprendre/catalog-platform/internal/model"
	"github.com/iapprendre/catalog-platform/internal/service"
	"github.com/iapprendre/catalog-platform/pkg/logger"
)

// ChatHandler handles chat session endpoints.
type ChatHandler struct {
	service *service.SessionService
	logger  *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(svc *service.SessionService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		service: svc,
		logger:  log,
	}
}

// Create handles POST /api/v1/chat
func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	resp := h.service.Create(r.Context())
	writeJSON(w, http.StatusCreated, resp)
}

// Delete handles DELETE /api/v1/chat/{id}
func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Delete(sessionID); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Transcript handles GET /api/v1/chat/{id}/messages
func (h *ChatHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Transcript(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Send handles POST /api/v1/chat/{id}/messages. The response carries the two
// messages appended by the resolved turn; blank input resolves to 200 with
// no messages, matching the agent's silent no-op.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateMessageText(req.Text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Submit(r.Context(), sessionID, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h.logger.Errorw("failed to submit message", "session_id", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to submit message")
		return
	}

	if resp.UserMessage == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}
