package configs

// Payments configures the hosted-checkout payment provider and the boost
// tier prices. A tier priced at 0 is treated as not configured and the
// checkout endpoint refuses it. Defaults match the launch pricing:
// $3 / $7 / $12.
type Payments struct {
	// BaseURL is the provider API endpoint used to create checkout
	// sessions.
	BaseURL string `env:"BASE_URL" envDefault:"https://payments.example.com/v1"`
	// APIKey authenticates outbound calls to the provider.
	APIKey string `env:"API_KEY"`
	// WebhookSecret is the shared secret confirmation signatures are
	// verified against.
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	// SuccessURL and CancelURL are where the provider sends the buyer
	// after checkout.
	SuccessURL string `env:"SUCCESS_URL" envDefault:"https://pocket-market.com/boost?status=success"`
	CancelURL  string `env:"CANCEL_URL" envDefault:"https://pocket-market.com/boost?status=canceled"`

	Price24Cents  int64 `env:"PRICE_24_CENTS" envDefault:"300"`
	Price72Cents  int64 `env:"PRICE_72_CENTS" envDefault:"700"`
	Price168Cents int64 `env:"PRICE_168_CENTS" envDefault:"1200"`
}

// PriceCents returns the configured price for a tier, or 0 when the tier
// has no price.
func (p Payments) PriceCents(hours int) int64 {
	switch hours {
	case 24:
		return p.Price24Cents
	case 72:
		return p.Price72Cents
	case 168:
		return p.Price168Cents
	default:
		return 0
	}
}
