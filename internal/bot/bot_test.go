package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/MikeSquared-Agency/taghvim/internal/calendar"
	"github.com/MikeSquared-Agency/taghvim/internal/converter"
	"github.com/MikeSquared-Agency/taghvim/internal/era"
	"github.com/MikeSquared-Agency/taghvim/internal/hermes"
	"github.com/MikeSquared-Agency/taghvim/internal/metrics"
	"github.com/MikeSquared-Agency/taghvim/internal/presenter"
	"github.com/MikeSquared-Agency/taghvim/internal/telegram"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSender struct {
	mu   sync.Mutex
	sent []telegram.SendMessageRequest
	err  error
}

func (f *fakeSender) SendMessage(ctx context.Context, msg telegram.SendMessageRequest) (*telegram.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	if f.err != nil {
		return nil, f.err
	}
	return &telegram.Message{MessageID: int64(len(f.sent)), Chat: telegram.Chat{ID: msg.ChatID}}, nil
}

func (f *fakeSender) last(t *testing.T) telegram.SendMessageRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatal("expected a reply to be sent")
	}
	return f.sent[len(f.sent)-1]
}

type published struct {
	subject string
	data    any
}

type fakePublisher struct {
	events []published
}

func (f *fakePublisher) Publish(subject string, data any) error {
	f.events = append(f.events, published{subject, data})
	return nil
}

func newTestBot(policy era.Policy, sender *fakeSender, events Publisher) (*Bot, *metrics.Metrics) {
	m := metrics.New()
	b := New(converter.New(policy), sender, events, m, Settings{Locale: calendar.LocaleEnglish, Footer: "taghvim.bot"}, discardLogger())
	return b, m
}

func textUpdate(text string) telegram.Update {
	return telegram.Update{
		UpdateID: 1,
		Message: &telegram.Message{
			MessageID: 10,
			Chat:      telegram.Chat{ID: 555, Type: "private"},
			From:      &telegram.User{ID: 1, FirstName: "Sara"},
			Text:      text,
		},
	}
}

func TestHandleUpdate_Start(t *testing.T) {
	sender := &fakeSender{}
	b, m := newTestBot(era.PolicyThreshold, sender, nil)

	b.HandleUpdate(context.Background(), textUpdate("/start"))

	msg := sender.last(t)
	if msg.Text != WelcomeText {
		t.Errorf("expected welcome text, got %q", msg.Text)
	}
	if msg.ParseMode != "" {
		t.Errorf("welcome should be plain text, got parse mode %q", msg.ParseMode)
	}
	if msg.ChatID != 555 || msg.ReplyParameters == nil || msg.ReplyParameters.MessageID != 10 {
		t.Errorf("reply not addressed to the incoming message: %+v", msg)
	}
	if got := testutil.ToFloat64(m.Updates.WithLabelValues(telegram.KindCommand)); got != 1 {
		t.Errorf("expected one command update, got %f", got)
	}
}

func TestHandleUpdate_HelpFollowsPolicy(t *testing.T) {
	for policy, want := range map[era.Policy]string{
		era.PolicyThreshold: HelpText,
		era.PolicyBounded:   HelpTextBounded,
	} {
		sender := &fakeSender{}
		b, _ := newTestBot(policy, sender, nil)

		b.HandleUpdate(context.Background(), textUpdate("/help"))

		if got := sender.last(t).Text; got != want {
			t.Errorf("policy %s: unexpected help text %q", policy, got)
		}
	}
}

func TestHandleUpdate_Conversion(t *testing.T) {
	sender := &fakeSender{}
	events := &fakePublisher{}
	b, m := newTestBot(era.PolicyThreshold, sender, events)

	b.HandleUpdate(context.Background(), textUpdate("1403/01/01"))

	msg := sender.last(t)
	if msg.ParseMode != telegram.ParseModeMarkdownV2 {
		t.Errorf("expected MarkdownV2, got %q", msg.ParseMode)
	}
	for _, check := range []string{`1403\-01\-01`, `2024\-03\-20`, "Wednesday, 20 March 2024", `_taghvim\.bot_`} {
		if !strings.Contains(msg.Text, check) {
			t.Errorf("expected reply to contain %q, got:\n%s", check, msg.Text)
		}
	}

	if len(events.events) != 1 || events.events[0].subject != hermes.SubjectConversionCompleted {
		t.Fatalf("expected one completed event, got %+v", events.events)
	}
	evt := events.events[0].data.(hermes.ConversionEvent)
	if evt.Source != "telegram" || evt.InputEra != "jalali" || evt.Output != "2024-03-20" || evt.RequestID == "" {
		t.Errorf("unexpected event %+v", evt)
	}

	if got := testutil.ToFloat64(m.Conversions.WithLabelValues("jalali", "ok")); got != 1 {
		t.Errorf("expected one ok jalali conversion, got %f", got)
	}
	if got := testutil.ToFloat64(m.Updates.WithLabelValues(telegram.KindText)); got != 1 {
		t.Errorf("expected one text update, got %f", got)
	}
}

func TestHandleUpdate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		policy   era.Policy
		text     string
		wantText string
		wantKind string
	}{
		{"no date", era.PolicyThreshold, "hello", converter.MsgInvalidFormat, "extraction"},
		{"out of range", era.PolicyThreshold, "99-99-9999", converter.MsgInvalidDate, "calendar_validity"},
		{"unknown era", era.PolicyBounded, "1700/01/01", converter.MsgInvalidFormat, "classification"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			events := &fakePublisher{}
			b, m := newTestBot(tt.policy, sender, events)

			b.HandleUpdate(context.Background(), textUpdate(tt.text))

			msg := sender.last(t)
			if msg.Text != tt.wantText {
				t.Errorf("expected %q, got %q", tt.wantText, msg.Text)
			}
			if msg.ParseMode != "" {
				t.Errorf("errors must be sent as plain text, got %q", msg.ParseMode)
			}
			if len(events.events) != 1 || events.events[0].subject != hermes.SubjectConversionFailed {
				t.Fatalf("expected one failed event, got %+v", events.events)
			}
			if got := events.events[0].data.(hermes.ConversionEvent).ErrorKind; got != tt.wantKind {
				t.Errorf("expected error kind %q, got %q", tt.wantKind, got)
			}
			if got := testutil.ToFloat64(m.Conversions.WithLabelValues("none", tt.wantKind)); got != 1 {
				t.Errorf("expected failed conversion to be counted, got %f", got)
			}
		})
	}
}

func TestHandleUpdate_SendFailureCounted(t *testing.T) {
	sender := &fakeSender{err: errors.New("network down")}
	b, m := newTestBot(era.PolicyThreshold, sender, nil)

	b.HandleUpdate(context.Background(), textUpdate("2024-03-21"))

	if got := testutil.ToFloat64(m.SendErrors); got != 1 {
		t.Errorf("expected one send error, got %f", got)
	}
}

func TestHandleUpdate_IgnoresUnknownCommandAndEmpty(t *testing.T) {
	sender := &fakeSender{}
	b, m := newTestBot(era.PolicyThreshold, sender, nil)

	b.HandleUpdate(context.Background(), textUpdate("/settings"))
	b.HandleUpdate(context.Background(), telegram.Update{UpdateID: 2})

	if len(sender.sent) != 0 {
		t.Errorf("expected no replies, got %d", len(sender.sent))
	}
	if got := testutil.ToFloat64(m.Updates.WithLabelValues(telegram.KindUnknownCommand)); got != 1 {
		t.Errorf("expected one unknown command, got %f", got)
	}
	if got := testutil.ToFloat64(m.Updates.WithLabelValues(telegram.KindIgnored)); got != 1 {
		t.Errorf("expected one ignored update, got %f", got)
	}
}

func TestHandleConvertRequest(t *testing.T) {
	b, _ := newTestBot(era.PolicyThreshold, &fakeSender{}, nil)

	tests := []struct {
		name    string
		payload string
		wantOut string
		wantErr string
	}{
		{"json payload", `{"text":"2024-03-21"}`, "1403-01-02", ""},
		{"bare text", "1403/01/01", "2024-03-20", ""},
		{"invalid", `{"text":"nope"}`, "", converter.MsgInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.HandleConvertRequest([]byte(tt.payload))
			if tt.wantErr != "" {
				resp, ok := got.(map[string]string)
				if !ok || resp["error"] != tt.wantErr {
					t.Errorf("expected error %q, got %#v", tt.wantErr, got)
				}
				return
			}
			view, ok := got.(presenter.ConversionView)
			if !ok {
				t.Fatalf("expected ConversionView, got %#v", got)
			}
			if view.Output.Short != tt.wantOut {
				t.Errorf("expected %s, got %s", tt.wantOut, view.Output.Short)
			}
		})
	}
}
