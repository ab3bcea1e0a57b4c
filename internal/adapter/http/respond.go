package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"pocket-market/internal/core/domain"
)

// writeJSON encodes v with the given status. Encoding failures are logged;
// at that point the status line is already on the wire.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

type errorBody struct {
	Error            string `json:"error"`
	Code             string `json:"code,omitempty"`
	CountdownSeconds int64  `json:"countdown_seconds,omitempty"`
}

// writeError maps the domain error taxonomy onto HTTP statuses. Expected
// outcomes (conflicts, quotas, permissions) are structured responses the
// client renders; anything unrecognized is a 500 logged for operators.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var rateLimited *domain.RateLimitedError
	switch {
	case errors.Is(err, domain.ErrForbidden):
		h.writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
	case errors.Is(err, domain.ErrProRequired):
		h.writeJSON(w, http.StatusForbidden, errorBody{Error: "Pro subscription required", Code: "pro_required"})
	case errors.As(err, &rateLimited):
		h.writeJSON(w, http.StatusTooManyRequests, errorBody{
			Error:            "Free boost already used today",
			Code:             "rate_limited",
			CountdownSeconds: rateLimited.ResetSeconds,
		})
	case errors.Is(err, domain.ErrAlreadyBoosted):
		h.writeJSON(w, http.StatusConflict, errorBody{Error: "Already boosted", Code: "conflict"})
	case errors.Is(err, domain.ErrListingNotFound), errors.Is(err, domain.ErrUserNotFound):
		h.writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, domain.ErrInvalidDuration):
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid duration"})
	case errors.Is(err, domain.ErrPriceNotConfigured):
		h.writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "Boost pricing not configured", Code: "unconfigured"})
	case errors.Is(err, domain.ErrBadSignature):
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid signature"})
	default:
		h.logger.Error("internal error",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		h.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
