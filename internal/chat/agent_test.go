package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iapprendre/catalog-platform/internal/model"
	"github.com/iapprendre/catalog-platform/pkg/logger"
)

// stubResponder returns a fixed reply or error.
type stubResponder struct {
	reply string
	err   error
}

func (s *stubResponder) Reply(ctx context.Context, transcript []model.ChatMessage) (string, error) {
	return s.reply, s.err
}

func newTestAgent(responder Responder) *Agent {
	return NewAgent("session-1", responder, logger.NewNop())
}

func TestAgentSeedsGreeting(t *testing.T) {
	agent := newTestAgent(&stubResponder{reply: "ok"})

	transcript, state := agent.Snapshot()

	require.Len(t, transcript, 1)
	assert.Equal(t, model.SenderAssistant, transcript[0].Sender)
	assert.Equal(t, Greeting, transcript[0].Text)
	assert.Equal(t, model.TurnIdle, state)
}

func TestAgentSubmitAppendsUserThenAssistant(t *testing.T) {
	agent := newTestAgent(NewRuleResponder(DefaultRules(), DefaultFallback, 0))

	userMsg, assistantMsg, err := agent.Submit(context.Background(), "bonjour")
	require.NoError(t, err)
	require.NotNil(t, userMsg)
	require.NotNil(t, assistantMsg)

	transcript, state := agent.Snapshot()
	require.Len(t, transcript, 3)

	last := transcript[len(transcript)-1]
	penultimate := transcript[len(transcript)-2]
	assert.Equal(t, model.SenderUser, penultimate.Sender)
	assert.Equal(t, "bonjour", penultimate.Text)
	assert.Equal(t, model.SenderAssistant, last.Sender)
	assert.NotEmpty(t, last.Text)
	assert.Equal(t, model.TurnIdle, state)
}

func TestAgentBlankSubmitIsNoOp(t *testing.T) {
	agent := newTestAgent(&stubResponder{reply: "ok"})

	for _, input := range []string{"", "   ", "\n\t"} {
		userMsg, assistantMsg, err := agent.Submit(context.Background(), input)
		require.NoError(t, err)
		assert.Nil(t, userMsg)
		assert.Nil(t, assistantMsg)
	}

	transcript, state := agent.Snapshot()
	assert.Len(t, transcript, 1, "transcript unchanged")
	assert.Equal(t, model.TurnIdle, state)
}

func TestAgentBackendFailureResolvesToFallback(t *testing.T) {
	agent := newTestAgent(&stubResponder{err: errors.New("connection refused")})

	_, assistantMsg, err := agent.Submit(context.Background(), "une question")
	require.NoError(t, err, "backend failures are absorbed, never propagated")
	require.NotNil(t, assistantMsg)

	assert.Equal(t, FallbackReply, assistantMsg.Text)

	transcript, state := agent.Snapshot()
	assert.Len(t, transcript, 3, "exactly one assistant message was added")
	assert.Equal(t, model.TurnIdle, state, "agent must never stay stuck awaiting a response")
}

func TestAgentNotifiesTypingThenIdle(t *testing.T) {
	agent := newTestAgent(&stubResponder{reply: "réponse"})

	var updates []model.ConversationUpdate
	agent.OnUpdate(func(u model.ConversationUpdate) {
		updates = append(updates, u)
	})

	_, _, err := agent.Submit(context.Background(), "question")
	require.NoError(t, err)

	require.Len(t, updates, 2)
	assert.Equal(t, model.TurnAwaitingResponse, updates[0].TurnState)
	assert.Equal(t, model.SenderUser, updates[0].Messages[len(updates[0].Messages)-1].Sender)
	assert.Equal(t, model.TurnIdle, updates[1].TurnState)
	assert.Equal(t, model.SenderAssistant, updates[1].Messages[len(updates[1].Messages)-1].Sender)
}

func TestAgentSerializesOverlappingSubmissions(t *testing.T) {
	agent := newTestAgent(&stubResponder{reply: "réponse"})

	const turns = 8
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := agent.Submit(context.Background(), fmt.Sprintf("question %d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	transcript, state := agent.Snapshot()
	require.Len(t, transcript, 1+2*turns)
	assert.Equal(t, model.TurnIdle, state)

	// After the greeting, messages alternate user/assistant: every user
	// append is immediately followed by its paired assistant append.
	for i := 1; i < len(transcript); i += 2 {
		assert.Equal(t, model.SenderUser, transcript[i].Sender, "position %d", i)
		assert.Equal(t, model.SenderAssistant, transcript[i+1].Sender, "position %d", i+1)
	}
}

func TestAgentMessageIDsAreUnique(t *testing.T) {
	agent := newTestAgent(&stubResponder{reply: "ok"})

	for i := 0; i < 5; i++ {
		_, _, err := agent.Submit(context.Background(), fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	transcript, _ := agent.Snapshot()
	seen := make(map[string]bool, len(transcript))
	for _, msg := range transcript {
		assert.False(t, seen[msg.ID], "duplicate message id %s", msg.ID)
		seen[msg.ID] = true
	}
}
