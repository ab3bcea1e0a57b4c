package port

import "context"

// CheckoutParams describes one paid-boost payment-collection session. The
// metadata fields ride along opaquely and come back verbatim in the
// confirmation, which is how the webhook reconciles the payment with a
// listing.
type CheckoutParams struct {
	CustomerID  string
	AmountCents int64
	Description string

	// Reconciliation metadata.
	ListingID string
	UserID    string
	Hours     int
}

// Confirmation is a verified payment confirmation. AmountCents is the
// amount actually charged, which may differ from the quoted price if the
// provider applied a discount or currency adjustment.
type Confirmation struct {
	SessionID   string
	ListingID   string
	UserID      string
	Hours       int
	AmountCents int64
}

// PaymentProvider is the outbound port to the external payment collector.
// The provider hosts the checkout page, collects the money and calls back
// asynchronously; the confirmation payload must not be trusted until
// VerifyConfirmation accepts its signature.
type PaymentProvider interface {
	// EnsureCustomer returns the provider-side customer id for a user,
	// creating one if needed.
	EnsureCustomer(ctx context.Context, userID, email, name string) (string, error)
	// CreateCheckoutSession opens a payment-collection session and returns
	// the URL the buyer is redirected to.
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)
	// VerifyConfirmation authenticates a callback payload against its
	// signature and decodes it. Returns domain.ErrBadSignature when the
	// signature does not match.
	VerifyConfirmation(payload []byte, signature string) (*Confirmation, error)
}
