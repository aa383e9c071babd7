package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects published and served by taghvim.
const (
	SubjectRegistered          = "taghvim.agent.registered"
	SubjectConversionCompleted = "taghvim.conversion.completed"
	SubjectConversionFailed    = "taghvim.conversion.failed"
	SubjectConvertRequest      = "taghvim.convert"
)

// ConversionEvent is published once per converted or rejected message.
// It carries no chat or user identifiers.
type ConversionEvent struct {
	RequestID string `json:"request_id"`
	Source    string `json:"source"` // "telegram", "http", "nats"
	InputEra  string `json:"input_era,omitempty"`
	Input     string `json:"input,omitempty"`
	Output    string `json:"output,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("taghvim"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

// Serve answers request/reply messages on subject with the JSON encoding of
// whatever handler returns.
func (c *Client) Serve(subject string, handler func(data []byte) any) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		if msg.Reply == "" {
			return
		}
		payload, err := json.Marshal(handler(msg.Data))
		if err != nil {
			c.logger.Error("marshal reply", "subject", msg.Subject, "error", err)
			return
		}
		if err := msg.Respond(payload); err != nil {
			c.logger.Warn("respond failed", "subject", msg.Subject, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("serving requests", "subject", subject)
	return nil
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
