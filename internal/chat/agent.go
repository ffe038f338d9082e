// Package chat implements the conversational helper: an append-only
// transcript, a turn-taking state machine and pluggable response strategies.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iapprendre/catalog-platform/internal/model"
	"github.com/iapprendre/catalog-platform/pkg/logger"
	"github.com/iapprendre/catalog-platform/pkg/metrics"
)

const (
	// Greeting seeds every new session's transcript.
	Greeting = "Bonjour ! Je suis votre assistant IA pour l'enseignement du français. Comment puis-je vous aider aujourd'hui ?"

	// FallbackReply replaces the assistant turn when the response backend
	// fails. Backend errors are never surfaced to the end user.
	FallbackReply = "Désolé, je rencontre un problème technique. Pouvez-vous reformuler votre question ?"
)

// Responder generates the assistant reply for a transcript snapshot.
type Responder interface {
	Reply(ctx context.Context, transcript []model.ChatMessage) (string, error)
}

// UpdateFunc receives a conversation update after every transcript or turn
// state change.
type UpdateFunc func(update model.ConversationUpdate)

// Agent owns one conversation session: its transcript and turn state. Turns
// are serialized; a Submit arriving while a response is being computed waits
// for the prior turn to resolve rather than interleaving with it.
type Agent struct {
	id        string
	responder Responder
	logger    *logger.Logger
	onUpdate  UpdateFunc

	// turnMu serializes whole turns, queueing concurrent submissions.
	turnMu sync.Mutex

	// mu guards transcript and state.
	mu         sync.RWMutex
	transcript []model.ChatMessage
	state      model.TurnState
}

// NewAgent creates an agent for a fresh session, seeded with the greeting.
func NewAgent(id string, responder Responder, log *logger.Logger) *Agent {
	a := &Agent{
		id:        id,
		responder: responder,
		logger:    log,
		state:     model.TurnIdle,
	}
	a.appendMessage(model.SenderAssistant, Greeting)
	return a
}

// ID returns the session identifier.
func (a *Agent) ID() string {
	return a.id
}

// OnUpdate registers the callback invoked after every conversation change.
func (a *Agent) OnUpdate(fn UpdateFunc) {
	a.mu.Lock()
	a.onUpdate = fn
	a.mu.Unlock()
}

// Snapshot returns a copy of the transcript and the current turn state.
func (a *Agent) Snapshot() ([]model.ChatMessage, model.TurnState) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	transcript := make([]model.ChatMessage, len(a.transcript))
	copy(transcript, a.transcript)
	return transcript, a.state
}

// Submit runs one full turn: append the user message, compute the response,
// append the assistant message. Blank input (after trimming) is a no-op.
// The user append strictly precedes the paired assistant append, and a failed
// backend resolves to FallbackReply; the agent always returns to idle.
func (a *Agent) Submit(ctx context.Context, text string) (*model.ChatMessage, *model.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, nil
	}

	a.turnMu.Lock()
	defer a.turnMu.Unlock()

	userMsg := a.appendMessage(model.SenderUser, text)
	a.setState(model.TurnAwaitingResponse)
	a.notify()

	transcript, _ := a.Snapshot()
	reply, err := a.responder.Reply(ctx, transcript)
	if err != nil {
		a.logger.Warnw("response generation failed, using fallback",
			"session_id", a.id, "error", err)
		reply = FallbackReply
	}

	assistantMsg := a.appendMessage(model.SenderAssistant, reply)
	a.setState(model.TurnIdle)
	a.notify()

	return &userMsg, &assistantMsg, nil
}

func (a *Agent) appendMessage(sender model.Sender, text string) model.ChatMessage {
	msg := model.ChatMessage{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Text:      text,
		Sender:    sender,
		Timestamp: time.Now(),
	}

	a.mu.Lock()
	a.transcript = append(a.transcript, msg)
	a.mu.Unlock()

	metrics.ChatMessagesTotal.WithLabelValues(string(sender)).Inc()
	return msg
}

func (a *Agent) setState(state model.TurnState) {
	a.mu.Lock()
	a.state = state
	a.mu.Unlock()
}

func (a *Agent) notify() {
	a.mu.RLock()
	fn := a.onUpdate
	a.mu.RUnlock()
	if fn == nil {
		return
	}

	transcript, state := a.Snapshot()
	fn(model.ConversationUpdate{
		SessionID: a.id,
		Messages:  transcript,
		TurnState: state,
		UpdatedAt: time.Now(),
	})
}
