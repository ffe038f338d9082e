package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iapprendre/catalog-platform/internal/llm"
	"github.com/iapprendre/catalog-platform/internal/model"
	"github.com/iapprendre/catalog-platform/pkg/logger"
	"github.com/iapprendre/catalog-platform/pkg/metrics"
)

// RemoteResponder generates replies by sending the full transcript to a
// remote completion backend. Every failure mode (network, status, parse,
// timeout) surfaces as an error; the agent maps it to FallbackReply so the
// turn always resolves.
type RemoteResponder struct {
	client  llm.Client
	timeout time.Duration
	logger  *logger.Logger
}

// NewRemoteResponder creates a remote completion responder with a bounded
// per-call wait.
func NewRemoteResponder(client llm.Client, timeout time.Duration, log *logger.Logger) *RemoteResponder {
	return &RemoteResponder{
		client:  client,
		timeout: timeout,
		logger:  log,
	}
}

// Reply sends the transcript as ordered user/assistant turns and returns the
// newest assistant turn's text.
func (r *RemoteResponder) Reply(ctx context.Context, transcript []model.ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	messages := make([]llm.ChatMessage, 0, len(transcript))
	for _, msg := range transcript {
		messages = append(messages, llm.ChatMessage{
			Role:    string(msg.Sender),
			Content: msg.Text,
		})
	}
	// Anthropic rejects transcripts that open with an assistant turn, so the
	// seeded greeting is dropped from the request.
	for len(messages) > 0 && messages[0].Role == string(model.SenderAssistant) {
		messages = messages[1:]
	}
	if len(messages) == 0 {
		return "", errors.New("transcript has no user turns")
	}

	start := time.Now()
	resp, err := r.client.Complete(ctx, &llm.CompletionRequest{
		Messages:  messages,
		MaxTokens: 1024,
	})
	if err != nil {
		metrics.RecordRemoteCompletion(r.client.Name(), "error", time.Since(start).Seconds())
		return "", fmt.Errorf("remote completion failed: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		metrics.RecordRemoteCompletion(r.client.Name(), "empty", time.Since(start).Seconds())
		return "", errors.New("remote completion returned empty content")
	}

	metrics.RecordRemoteCompletion(r.client.Name(), "success", time.Since(start).Seconds())
	r.logger.Debugw("remote completion",
		"provider", r.client.Name(),
		"model", resp.Model,
		"tokens_in", resp.TokensIn,
		"tokens_out", resp.TokensOut,
		"latency_ms", resp.LatencyMs,
	)

	return resp.Content, nil
}
