package telegram

import (
	"context"
	"log/slog"
	"strings"
)

// Handler consumes updates from the poller or the webhook.
type Handler interface {
	HandleUpdate(ctx context.Context, u Update)
}

// MessageFunc handles one message.
type MessageFunc func(ctx context.Context, msg *Message)

// Dispatch kinds reported by Router.Dispatch.
const (
	KindCommand        = "command"
	KindUnknownCommand = "unknown_command"
	KindText           = "text"
	KindIgnored        = "ignored"
)

// Router sends commands to registered command handlers and everything else
// with text to the text handler. Unregistered commands are dropped.
type Router struct {
	commands map[string]MessageFunc
	text     MessageFunc
	logger   *slog.Logger
}

func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		commands: make(map[string]MessageFunc),
		logger:   logger,
	}
}

// Command registers fn for /name. Names are case-insensitive.
func (r *Router) Command(name string, fn MessageFunc) {
	r.commands[normalizeCommand(name)] = fn
}

// Text registers the handler for non-command text messages.
func (r *Router) Text(fn MessageFunc) {
	r.text = fn
}

// Dispatch routes u and reports how it was handled.
func (r *Router) Dispatch(ctx context.Context, u Update) string {
	msg := u.Message
	if msg == nil || msg.Text == "" {
		return KindIgnored
	}
	if msg.From != nil && msg.From.IsBot {
		return KindIgnored
	}

	if name, ok := msg.Command(); ok {
		fn, found := r.commands[name]
		if !found {
			r.logger.Debug("unknown command", "command", name, "chat_id", msg.Chat.ID)
			return KindUnknownCommand
		}
		fn(ctx, msg)
		return KindCommand
	}

	if r.text == nil {
		return KindIgnored
	}
	r.text(ctx, msg)
	return KindText
}

func normalizeCommand(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, "/"))
}
