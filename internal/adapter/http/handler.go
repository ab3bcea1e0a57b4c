package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"log/slog"

	"pocket-market/internal/core/port"
)

// Handler contains dependencies and routes. It is an inbound adapter for HTTP.
// It holds the boost usecase to execute business logic and a logger for
// structured logging. Routes are registered on a chi.Router for convenient
// method handling.
type Handler struct {
	svc    port.BoostUseCase
	logger *slog.Logger
	router chi.Router
}

// NewHandler creates a handler with all routes configured. Caller identity
// arrives in the X-User-ID header, installed by the auth layer in front of
// this service; endpoints that require identity reject requests without it.
func NewHandler(svc port.BoostUseCase, logger *slog.Logger) *Handler {
	h := &Handler{svc: svc, logger: logger}
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Route("/boosts", func(r chi.Router) {
			r.Get("/featured", h.handleFeatured)
			r.Get("/durations", h.handleDurations)
			r.Get("/status", h.handleStatus)
			r.Get("/rules", h.handleRules)
			r.Post("/activate", h.handleActivateFree)
			r.Post("/create-checkout", h.handleCreateCheckout)
			r.Get("/stats/overview", h.handleStatsOverview)
		})
		r.Post("/billing/webhook", h.handleWebhook)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

// callerID extracts the authenticated user id, or "" for anonymous.
func callerID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}
