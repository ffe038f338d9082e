// Package events publishes conversation updates to NATS for external
// renderers. The bus is a plain fan-out; nothing is retained.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/iapprendre/catalog-platform/internal/model"
	"github.com/iapprendre/catalog-platform/pkg/logger"
)

// SubjectPrefix is the prefix for conversation update subjects; the session
// ID is appended per message.
const SubjectPrefix = "chat.conversations"

// Config holds NATS connection configuration.
type Config struct {
	URL   string
	Token string
}

// Publisher broadcasts conversation updates over NATS.
type Publisher struct {
	conn   *nats.Conn
	logger *logger.Logger
}

// Connect establishes a connection to the NATS server.
func Connect(cfg Config, log *logger.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warnw("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infow("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{conn: nc, logger: log}, nil
}

// PublishUpdate sends one conversation update on the session's subject.
func (p *Publisher) PublishUpdate(ctx context.Context, update model.ConversationUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", SubjectPrefix, update.SessionID)
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish update: %w", err)
	}
	return nil
}

// IsConnected returns true if connected to NATS.
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
