package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iapprendre/catalog-platform/internal/middleware"
	"github.com/iapprendre/catalog-platform/internal/model"
	"github.com/iapprendre/catalog-platform/internal/service"
	"github.com/iapprendre/catalog-platform/pkg/logger"
	"github.com/iapprendre/catalog-platform/pkg/metrics"
)

// StreamHandler handles SSE streaming endpoints.
type StreamHandler struct {
	service *service.SessionService
	logger  *logger.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(svc *service.SessionService, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		service: svc,
		logger:  log,
	}
}

// Stream handles GET /api/v1/chat/{id}/stream
// Emits the current conversation snapshot, then one event per conversation
// update, so a renderer can show the typing indicator while awaiting_response.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshot, err := h.service.Transcript(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	updates, cancel, err := h.service.Subscribe(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	defer cancel()

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	sendSSEEvent(w, flusher, "connected", map[string]string{
		"session_id": sessionID,
	})
	sendSSEEvent(w, flusher, "conversation", snapshot)

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Infow("SSE client disconnected", "session_id", sessionID)
			return

		case update, open := <-updates:
			if !open {
				return
			}
			sendSSEEvent(w, flusher, "conversation", update)

		case <-heartbeat.C:
			sendSSEEvent(w, flusher, "heartbeat", &model.HeartbeatEvent{
				Timestamp: time.Now(),
			})
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()

	return nil
}
