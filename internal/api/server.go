package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/taghvim/internal/calendar"
	"github.com/MikeSquared-Agency/taghvim/internal/converter"
	"github.com/MikeSquared-Agency/taghvim/internal/metrics"
	"github.com/MikeSquared-Agency/taghvim/internal/presenter"
)

const WebhookPath = "/telegram/webhook"

// maxBodyBytes bounds convert request bodies.
const maxBodyBytes = 4 << 10

// Converter runs one conversion on behalf of an HTTP caller. *bot.Bot
// satisfies it.
type Converter interface {
	Convert(source, text string) (*converter.Result, error)
}

// Status is reported by the status endpoint.
type Status struct {
	Mode      string `json:"mode"`
	EraPolicy string `json:"era_policy"`
	Locale    string `json:"locale"`
	Version   string `json:"version"`
}

type Server struct {
	router *chi.Mux
	port   int
	conv   Converter
	locale calendar.Locale
	status Status
	logger *slog.Logger
	http   *http.Server
}

func NewServer(port int, conv Converter, m *metrics.Metrics, locale calendar.Locale, status Status, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		port:   port,
		conv:   conv,
		locale: locale,
		status: status,
		logger: logger,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/taghvim/status", s.statusHandler)
	router.Post("/api/v1/convert", s.convert)
	router.Method(http.MethodGet, "/metrics", m.Handler())

	return s
}

// MountWebhook serves h at path. Call before Start.
func (s *Server) MountWebhook(path string, h http.Handler) {
	s.router.Method(http.MethodPost, path, h)
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("API server starting", "addr", addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Agent string `json:"agent"`
		Status
	}{Agent: "taghvim", Status: s.status})
}

func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	res, err := s.conv.Convert("http", req.Text)
	if err != nil {
		s.logger.Info("http conversion rejected",
			"request_id", middleware.GetReqID(r.Context()),
			"kind", converter.Kind(err),
		)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": converter.UserMessage(err),
			"kind":  converter.Kind(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, presenter.View(res, s.locale))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
