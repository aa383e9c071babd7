package bot

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/taghvim/internal/calendar"
	"github.com/MikeSquared-Agency/taghvim/internal/converter"
	"github.com/MikeSquared-Agency/taghvim/internal/era"
	"github.com/MikeSquared-Agency/taghvim/internal/hermes"
	"github.com/MikeSquared-Agency/taghvim/internal/metrics"
	"github.com/MikeSquared-Agency/taghvim/internal/presenter"
	"github.com/MikeSquared-Agency/taghvim/internal/telegram"
)

const (
	WelcomeText = "Welcome! Send me a date, and I'll convert it for you."
	HelpText    = "Send a date as year, month and day, for example:\n" +
		"1403/01/01 (Jalali)\n" +
		"2024-03-20 (Gregorian)\n\n" +
		"Years before 1600 are read as Jalali, later years as Gregorian."
	HelpTextBounded = "Send a date as year, month and day, for example:\n" +
		"1403/01/01 (Jalali)\n" +
		"2024-03-20 (Gregorian)\n\n" +
		"Jalali years 1200-1500 and Gregorian years 1900-2100 are supported."
)

// Sender delivers replies. *telegram.Client satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, msg telegram.SendMessageRequest) (*telegram.Message, error)
}

// Publisher emits conversion events. *hermes.Client satisfies it.
type Publisher interface {
	Publish(subject string, data any) error
}

// Settings control how replies look.
type Settings struct {
	Locale calendar.Locale
	Footer string
}

// Bot turns chat messages into conversions and replies. It keeps no state
// between messages.
type Bot struct {
	conv     *converter.Converter
	sender   Sender
	events   Publisher
	metrics  *metrics.Metrics
	router   *telegram.Router
	settings Settings
	logger   *slog.Logger
}

// New wires the command and text handlers. events may be nil.
func New(conv *converter.Converter, sender Sender, events Publisher, m *metrics.Metrics, settings Settings, logger *slog.Logger) *Bot {
	b := &Bot{
		conv:     conv,
		sender:   sender,
		events:   events,
		metrics:  m,
		router:   telegram.NewRouter(logger),
		settings: settings,
		logger:   logger,
	}

	b.router.Command("start", b.handleStart)
	b.router.Command("help", b.handleHelp)
	b.router.Text(b.handleText)

	return b
}

// HandleUpdate implements telegram.Handler.
func (b *Bot) HandleUpdate(ctx context.Context, u telegram.Update) {
	kind := b.router.Dispatch(ctx, u)
	b.metrics.Updates.WithLabelValues(kind).Inc()
}

func (b *Bot) handleStart(ctx context.Context, msg *telegram.Message) {
	b.reply(ctx, msg, WelcomeText, "")
}

func (b *Bot) handleHelp(ctx context.Context, msg *telegram.Message) {
	text := HelpText
	if b.conv.Policy() != era.PolicyThreshold {
		text = HelpTextBounded
	}
	b.reply(ctx, msg, text, "")
}

func (b *Bot) handleText(ctx context.Context, msg *telegram.Message) {
	requestID := uuid.NewString()
	logger := b.logger.With("request_id", requestID, "chat_id", msg.Chat.ID)

	res, err := b.convert(requestID, "telegram", msg.Text)
	if err != nil {
		logger.Info("conversion rejected", "kind", converter.Kind(err), "error", err)
		b.reply(ctx, msg, converter.UserMessage(err), "")
		return
	}

	logger.Info("conversion completed",
		"input_era", string(res.Input.Era),
		"input", res.Input.Short(),
		"output", res.Output.Short(),
	)
	b.reply(ctx, msg, presenter.Render(res, b.settings.Locale, b.settings.Footer), telegram.ParseModeMarkdownV2)
}

// HandleConvertRequest answers NATS convert requests. The payload is either
// {"text": "..."} or the bare date text.
func (b *Bot) HandleConvertRequest(data []byte) any {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &req); err != nil || req.Text == "" {
		req.Text = strings.TrimSpace(string(data))
	}

	res, err := b.Convert("nats", req.Text)
	if err != nil {
		return map[string]string{"error": converter.UserMessage(err), "kind": converter.Kind(err)}
	}
	return presenter.View(res, b.settings.Locale)
}

// Convert runs one conversion for a non-chat source such as the HTTP API.
func (b *Bot) Convert(source, text string) (*converter.Result, error) {
	return b.convert(uuid.NewString(), source, text)
}

// convert runs one conversion and records its metrics and event.
func (b *Bot) convert(requestID, source, text string) (*converter.Result, error) {
	start := time.Now()
	res, err := b.conv.Convert(text)
	elapsed := time.Since(start)

	evt := hermes.ConversionEvent{
		RequestID: requestID,
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	subject := hermes.SubjectConversionCompleted

	if err != nil {
		b.metrics.ObserveConversion("", converter.Kind(err), elapsed)
		evt.ErrorKind = converter.Kind(err)
		subject = hermes.SubjectConversionFailed
	} else {
		b.metrics.ObserveConversion(string(res.Input.Era), "ok", elapsed)
		evt.InputEra = string(res.Input.Era)
		evt.Input = res.Input.Short()
		evt.Output = res.Output.Short()
	}

	if b.events != nil {
		if perr := b.events.Publish(subject, evt); perr != nil {
			b.logger.Warn("failed to publish conversion event", "request_id", requestID, "error", perr)
		}
	}
	return res, err
}

func (b *Bot) reply(ctx context.Context, msg *telegram.Message, text, parseMode string) {
	_, err := b.sender.SendMessage(ctx, telegram.SendMessageRequest{
		ChatID:    msg.Chat.ID,
		Text:      text,
		ParseMode: parseMode,
		ReplyParameters: &telegram.ReplyParameters{
			MessageID:                msg.MessageID,
			AllowSendingWithoutReply: true,
		},
	})
	if err != nil {
		b.metrics.SendErrors.Inc()
		b.logger.Error("failed to send reply", "chat_id", msg.Chat.ID, "error", err)
	}
}
