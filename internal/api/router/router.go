package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/barbearia-digital/booking-agent/internal/http/handlers"
	httpmiddleware "github.com/barbearia-digital/booking-agent/internal/http/middleware"
	"github.com/barbearia-digital/booking-agent/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger       *logging.Logger
	Message      *handlers.MessageHandler
	Clients      *handlers.ClientsHandler
	Appointments *handlers.AppointmentsHandler

	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler
	// RateLimiter throttles the message endpoint when set.
	RateLimiter *httpmiddleware.RateLimiter
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/", health)
	r.Get("/health", health)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Group(func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(cfg.RateLimiter.Middleware)
		}
		api.Post("/mensagem", cfg.Message.Handle)
	})

	if cfg.Clients != nil {
		r.Get("/cliente/{numero}", cfg.Clients.GetClient)
	}
	if cfg.Appointments != nil {
		r.Get("/agendamentos", cfg.Appointments.List)
	}

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Chatbot Barbearia API está funcionando!",
		"status":  "online",
	})
}
