package telegram

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
)

// SecretHeader carries the secret_token given to setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookHandler decodes webhook deliveries and passes them to h. When secret
// is set, requests without the matching header are rejected.
func WebhookHandler(secret string, h Handler, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if secret != "" {
			got := r.Header.Get(SecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				logger.Warn("webhook rejected: bad secret token", "remote", r.RemoteAddr)
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
		}

		var u Update
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			logger.Warn("webhook rejected: invalid update", "error", err)
			http.Error(w, `{"error":"invalid update"}`, http.StatusBadRequest)
			return
		}

		h.HandleUpdate(r.Context(), u)
		w.WriteHeader(http.StatusOK)
	}
}
