// Package payment adapts the external hosted-checkout payment collector to
// port.PaymentProvider. The provider hosts the payment page, collects the
// money and posts a signed confirmation back; nothing in the confirmation
// is trusted before its HMAC verifies.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pocket-market/internal/config/configs"
	"pocket-market/internal/core/domain"
	"pocket-market/internal/core/port"
)

// Metadata keys carried through the checkout session and returned verbatim
// in the confirmation.
const (
	metaListingID = "boost_listing_id"
	metaHours     = "boost_hours"
	metaUserID    = "pocket_market_user_id"
)

// HostedProvider talks to the provider's REST API and verifies webhook
// signatures with the shared secret. Session creation is deliberately not
// retried: a repeated create could mint a second live checkout session.
type HostedProvider struct {
	cfg    configs.Payments
	client *http.Client
}

// NewHostedProvider builds a provider client from config.
func NewHostedProvider(cfg configs.Payments) *HostedProvider {
	return &HostedProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// EnsureCustomer creates (or returns) the provider-side customer for a
// user.
func (p *HostedProvider) EnsureCustomer(ctx context.Context, userID, email, name string) (string, error) {
	body := map[string]string{
		"email":    email,
		"name":     name,
		metaUserID: userID,
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := p.post(ctx, "/customers", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreateCheckoutSession opens a payment-collection session scoped to one
// listing and duration tier, embedding the reconciliation metadata.
func (p *HostedProvider) CreateCheckoutSession(ctx context.Context, params port.CheckoutParams) (string, error) {
	body := map[string]any{
		"customer":     params.CustomerID,
		"amount_cents": params.AmountCents,
		"currency":     "usd",
		"description":  params.Description,
		"success_url":  p.cfg.SuccessURL,
		"cancel_url":   p.cfg.CancelURL,
		"metadata": map[string]string{
			metaListingID: params.ListingID,
			metaHours:     strconv.Itoa(params.Hours),
			metaUserID:    params.UserID,
		},
	}
	var resp struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := p.post(ctx, "/checkout/sessions", body, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// VerifyConfirmation checks the payload's HMAC-SHA256 signature against the
// webhook secret in constant time, then decodes the confirmation.
func (p *HostedProvider) VerifyConfirmation(payload []byte, signature string) (*port.Confirmation, error) {
	mac := hmac.New(sha256.New, []byte(p.cfg.WebhookSecret))
	mac.Write(payload)
	expected := mac.Sum(nil)

	given, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return nil, domain.ErrBadSignature
	}
	if !hmac.Equal(given, expected) {
		return nil, domain.ErrBadSignature
	}

	var event struct {
		ID          string            `json:"id"`
		AmountTotal int64             `json:"amount_total"`
		Metadata    map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, domain.ErrBadSignature
	}

	hours, _ := strconv.Atoi(event.Metadata[metaHours])
	return &port.Confirmation{
		SessionID:   event.ID,
		ListingID:   event.Metadata[metaListingID],
		UserID:      event.Metadata[metaUserID],
		Hours:       hours,
		AmountCents: event.AmountTotal,
	}, nil
}

// Sign computes the signature the provider would attach to payload. Used by
// tests and local tooling to fabricate valid confirmations.
func (p *HostedProvider) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(p.cfg.WebhookSecret))
	mac.Write(payload)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (p *HostedProvider) post(ctx context.Context, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("payment provider %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
