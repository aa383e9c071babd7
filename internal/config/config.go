package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/MikeSquared-Agency/taghvim/internal/calendar"
	"github.com/MikeSquared-Agency/taghvim/internal/era"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

type Config struct {
	Port           int    `validate:"min=1,max=65535"`
	TelegramToken  string `validate:"required"`
	TelegramAPIURL string `validate:"required,url"`
	Mode           string `validate:"oneof=polling webhook"`
	WebhookURL     string `validate:"omitempty,url"`
	WebhookSecret  string
	PollTimeout    int `validate:"min=0,max=50"`
	RateLimit      int `validate:"gt=0"`
	EraPolicy      string
	ReplyLocale    string
	ReplyFooter    string
	NatsURL        string
	NatsToken      string
	LogLevel       string `validate:"oneof=debug info warn error"`
}

var validate = validator.New()

func Load() Config {
	return Config{
		Port:           envInt("TAGHVIM_PORT", 8760),
		TelegramToken:  envStr("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIURL: envStr("TELEGRAM_API_URL", "https://api.telegram.org"),
		Mode:           envStr("TELEGRAM_MODE", ModePolling),
		WebhookURL:     envStr("TELEGRAM_WEBHOOK_URL", ""),
		WebhookSecret:  envStr("TELEGRAM_WEBHOOK_SECRET", ""),
		PollTimeout:    envInt("TELEGRAM_POLL_TIMEOUT", 30),
		RateLimit:      envInt("TELEGRAM_RATE_LIMIT", 25),
		EraPolicy:      envStr("ERA_POLICY", string(era.DefaultPolicy)),
		ReplyLocale:    envStr("REPLY_LOCALE", string(calendar.LocalePersian)),
		ReplyFooter:    envStr("REPLY_FOOTER", "Converted by @taghvim_bot"),
		NatsURL:        envStr("NATS_URL", ""),
		NatsToken:      envStr("NATS_TOKEN", ""),
		LogLevel:       envStr("LOG_LEVEL", "info"),
	}
}

// Validate reports every problem that would stop the bot from starting.
func (c Config) Validate() error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%s: failed %q check", fe.Field(), fe.Tag()))
			}
		} else {
			errs = append(errs, err)
		}
	}
	if c.Mode == ModeWebhook && c.WebhookURL == "" {
		errs = append(errs, errors.New("WebhookURL: required in webhook mode"))
	}
	if _, err := era.ParsePolicy(c.EraPolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := calendar.ParseLocale(c.ReplyLocale); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Policy is the parsed EraPolicy. Call after Validate.
func (c Config) Policy() era.Policy {
	p, err := era.ParsePolicy(c.EraPolicy)
	if err != nil {
		return era.DefaultPolicy
	}
	return p
}

// Locale is the parsed ReplyLocale. Call after Validate.
func (c Config) Locale() calendar.Locale {
	l, err := calendar.ParseLocale(c.ReplyLocale)
	if err != nil {
		return calendar.LocalePersian
	}
	return l
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
