package telegram

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Poller drives a Handler from getUpdates. Updates are handled one at a time
// in the order Telegram delivers them.
type Poller struct {
	client  *Client
	timeout int
	backoff time.Duration
	logger  *slog.Logger
}

func NewPoller(client *Client, timeout int, logger *slog.Logger) *Poller {
	return &Poller{
		client:  client,
		timeout: timeout,
		backoff: 3 * time.Second,
		logger:  logger,
	}
}

// Run polls until ctx is cancelled. Transport errors are logged and retried.
func (p *Poller) Run(ctx context.Context, h Handler) error {
	var offset int64
	p.logger.Info("polling for updates", "timeout", p.timeout)

	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := p.client.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			wait := p.backoff
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
				wait = apiErr.RetryAfter
			}
			p.logger.Warn("getUpdates failed", "error", err, "retry_in", wait.String())
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			continue
		}

		for _, u := range updates {
			h.HandleUpdate(ctx, u)
			// Acknowledge even if handling failed; a message is never retried.
			offset = u.UpdateID + 1
		}
	}
}
