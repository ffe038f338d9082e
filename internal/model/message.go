package model

import (
	"time"
)

// Sender identifies who produced a chat message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// TurnState is the conversation agent's turn-taking state.
type TurnState string

const (
	// TurnIdle means the agent is ready to accept new user input.
	TurnIdle TurnState = "idle"
	// TurnAwaitingResponse means a response is being computed.
	TurnAwaitingResponse TurnState = "awaiting_response"
)

// ChatMessage is one entry of a conversation transcript. Messages are
// append-only and never edited once appended.
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateSessionResponse is the response after opening a chat session.
type CreateSessionResponse struct {
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
	TurnState TurnState     `json:"turn_state"`
}

// SendMessageRequest is the request to submit user input to a session.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// SendMessageResponse carries the two messages appended by a resolved turn.
type SendMessageResponse struct {
	UserMessage      *ChatMessage `json:"user_message,omitempty"`
	AssistantMessage *ChatMessage `json:"assistant_message,omitempty"`
	TurnState        TurnState    `json:"turn_state"`
}

// TranscriptResponse is the full transcript plus the current turn state, so a
// renderer can show a typing indicator while awaiting_response.
type TranscriptResponse struct {
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
	TurnState TurnState     `json:"turn_state"`
}

// ConversationUpdate is the outward event emitted on every transcript or turn
// state change.
type ConversationUpdate struct {
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
	TurnState TurnState     `json:"turn_state"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ErrorEvent represents an error event on a stream.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HeartbeatEvent represents a heartbeat event.
type HeartbeatEvent struct {
	Timestamp time.Time `json:"timestamp"`
}
