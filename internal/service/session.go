package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iapprendre/catalog-platform/internal/chat"
	"github.com/iapprendre/catalog-platform/internal/model"
	"github.com/iapprendre/catalog-platform/pkg/logger"
	"github.com/iapprendre/catalog-platform/pkg/metrics"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// UpdatePublisher forwards conversation updates to an external bus.
type UpdatePublisher interface {
	PublishUpdate(ctx context.Context, update model.ConversationUpdate) error
}

type session struct {
	agent      *chat.Agent
	lastActive time.Time

	subscribers map[int]chan model.ConversationUpdate
	nextSubID   int
}

// SessionService manages chat sessions. Sessions live in memory only and are
// discarded when deleted or idle past the TTL; there is no persistence.
type SessionService struct {
	responder chat.Responder
	publisher UpdatePublisher
	logger    *logger.Logger
	ttl       time.Duration

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewSessionService creates a new session service. publisher may be nil when
// no external event bus is configured.
func NewSessionService(responder chat.Responder, publisher UpdatePublisher, ttl time.Duration, log *logger.Logger) *SessionService {
	return &SessionService{
		responder: responder,
		publisher: publisher,
		logger:    log,
		ttl:       ttl,
		sessions:  make(map[string]*session),
	}
}

// Create opens a new session, seeded with the assistant greeting.
func (s *SessionService) Create(ctx context.Context) *model.CreateSessionResponse {
	id := uuid.Must(uuid.NewV7()).String()
	agent := chat.NewAgent(id, s.responder, s.logger)

	sess := &session{
		agent:       agent,
		lastActive:  time.Now(),
		subscribers: make(map[int]chan model.ConversationUpdate),
	}
	agent.OnUpdate(func(update model.ConversationUpdate) {
		s.broadcast(update)
	})

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	metrics.SessionsActive.Inc()
	s.logger.Infow("chat session created", "session_id", id)

	messages, state := agent.Snapshot()
	return &model.CreateSessionResponse{
		SessionID: id,
		Messages:  messages,
		TurnState: state,
	}
}

// Submit forwards user input to the session's agent. Blank input is a no-op
// and both returned messages are nil.
func (s *SessionService) Submit(ctx context.Context, sessionID, text string) (*model.SendMessageResponse, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	userMsg, assistantMsg, err := sess.agent.Submit(ctx, text)
	if err != nil {
		return nil, err
	}

	_, state := sess.agent.Snapshot()
	return &model.SendMessageResponse{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		TurnState:        state,
	}, nil
}

// Transcript returns the session's transcript and turn state.
func (s *SessionService) Transcript(sessionID string) (*model.TranscriptResponse, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	messages, state := sess.agent.Snapshot()
	return &model.TranscriptResponse{
		SessionID: sessionID,
		Messages:  messages,
		TurnState: state,
	}, nil
}

// Subscribe registers a listener for the session's conversation updates. The
// returned cancel func must be called when the listener goes away.
func (s *SessionService) Subscribe(sessionID string) (<-chan model.ConversationUpdate, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[sessionID]
	if !exists {
		return nil, nil, ErrSessionNotFound
	}

	// Buffered so a slow consumer drops updates instead of blocking a turn.
	ch := make(chan model.ConversationUpdate, 8)
	id := sess.nextSubID
	sess.nextSubID++
	sess.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sess, exists := s.sessions[sessionID]; exists {
			delete(sess.subscribers, id)
		}
	}
	return ch, cancel, nil
}

// Delete closes a session and drops its transcript.
func (s *SessionService) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	metrics.SessionsActive.Dec()
	s.logger.Infow("chat session deleted", "session_id", sessionID)
	return nil
}

// StartReaper evicts sessions idle past the TTL until ctx is done.
func (s *SessionService) StartReaper(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}

	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.reap()
			}
		}
	}()
}

func (s *SessionService) reap() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.lastActive.Before(cutoff) {
			delete(s.sessions, id)
			metrics.SessionsActive.Dec()
			s.logger.Infow("chat session expired", "session_id", id)
		}
	}
}

func (s *SessionService) get(sessionID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	sess.lastActive = time.Now()
	return sess, nil
}

func (s *SessionService) broadcast(update model.ConversationUpdate) {
	if s.publisher != nil {
		if err := s.publisher.PublishUpdate(context.Background(), update); err != nil {
			s.logger.Warnw("failed to publish conversation update",
				"session_id", update.SessionID, "error", err)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, exists := s.sessions[update.SessionID]
	if !exists {
		return
	}
	for _, ch := range sess.subscribers {
		select {
		case ch <- update:
		default:
		}
	}
}
