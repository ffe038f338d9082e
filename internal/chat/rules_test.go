package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iapprendre/catalog-platform/internal/model"
)

func transcriptWith(userText string) []model.ChatMessage {
	return []model.ChatMessage{
		{ID: "1", Sender: model.SenderAssistant, Text: Greeting},
		{ID: "2", Sender: model.SenderUser, Text: userText},
	}
}

func TestRuleResponderTopics(t *testing.T) {
	responder := NewRuleResponder(DefaultRules(), DefaultFallback, 0)
	rules := DefaultRules()

	tests := []struct {
		name      string
		input     string
		wantTopic string
	}{
		{name: "grammaire trigger", input: "Comment améliorer ma grammaire ?", wantTopic: "grammaire"},
		{name: "orthographe via faute", input: "J'ai fait une faute", wantTopic: "orthographe"},
		{name: "vocabulaire via mot", input: "Je cherche un mot", wantTopic: "vocabulaire"},
		{name: "conjugaison via verbe", input: "Comment conjuguer ce verbe ?", wantTopic: "conjugaison"},
		{name: "expression via rédaction", input: "Aide-moi pour ma rédaction", wantTopic: "expression"},
		{name: "lecture via lire", input: "Je veux mieux lire", wantTopic: "lecture"},
		{name: "greeting", input: "Salut !", wantTopic: "salutation"},
		{name: "thanks", input: "Merci beaucoup", wantTopic: "remerciement"},
	}

	responses := make(map[string]string, len(rules))
	for _, rule := range rules {
		responses[rule.Topic] = rule.Response
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := responder.Reply(context.Background(), transcriptWith(tt.input))
			require.NoError(t, err)
			assert.Equal(t, responses[tt.wantTopic], got)
		})
	}
}

func TestRuleResponderTableOrderWins(t *testing.T) {
	responder := NewRuleResponder(DefaultRules(), DefaultFallback, 0)

	// Contains both a greeting trigger and a topic trigger; the topic rule
	// sits earlier in the table and must win.
	got, err := responder.Reply(context.Background(), transcriptWith("Bonjour, une question de grammaire"))
	require.NoError(t, err)

	assert.Equal(t, DefaultRules()[0].Response, got)
}

func TestRuleResponderCaseInsensitive(t *testing.T) {
	responder := NewRuleResponder(DefaultRules(), DefaultFallback, 0)

	got, err := responder.Reply(context.Background(), transcriptWith("GRAMMAIRE"))
	require.NoError(t, err)

	assert.Equal(t, DefaultRules()[0].Response, got)
}

func TestRuleResponderFallback(t *testing.T) {
	responder := NewRuleResponder(DefaultRules(), DefaultFallback, 0)

	got, err := responder.Reply(context.Background(), transcriptWith("météo de demain"))
	require.NoError(t, err)

	assert.Equal(t, DefaultFallback, got)
}

func TestRuleResponderTypingDelayCutShortByContext(t *testing.T) {
	responder := NewRuleResponder(DefaultRules(), DefaultFallback, 10*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	got, err := responder.Reply(ctx, transcriptWith("merci"))
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.NotEmpty(t, got, "a cancelled delay still yields a response")
}
