package httpadapter

import (
	"errors"
	"io"
	"net/http"

	"pocket-market/internal/core/domain"
)

// maxWebhookBody caps confirmation payload size; provider events are small.
const maxWebhookBody = 1 << 20

// handleWebhook receives asynchronous payment confirmations. The payload is
// untrusted input: the usecase verifies the signature before acting on any
// of it. A confirmation for an occupied slot is acknowledged with 200 after
// being logged for manual reconciliation, so the provider stops retrying.
func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "unreadable payload"})
		return
	}
	signature := r.Header.Get("X-Payment-Signature")

	if err := h.svc.ConfirmPayment(r.Context(), payload, signature); err != nil {
		if errors.Is(err, domain.ErrBadSignature) {
			h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid signature"})
			return
		}
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, struct {
		Received bool `json:"received"`
	}{true})
}
