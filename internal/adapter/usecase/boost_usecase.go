package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pocket-market/internal/config/configs"
	"pocket-market/internal/core/domain"
	"pocket-market/internal/core/port"
)

// tierLabels are the display names for the purchasable durations.
var tierLabels = map[int]string{24: "24 Hours", 72: "3 Days", 168: "7 Days"}

// BoostUseCase implements the boost business logic: lazy expiry, carousel
// selection, free-boost entitlement and the two purchase paths. There is no
// background scheduler; every operation that depends on active-boost state
// sweeps stale boosts first.
type BoostUseCase struct {
	repo     port.BoostRepository
	payments port.PaymentProvider
	logger   *slog.Logger

	boostCfg configs.Boost
	payCfg   configs.Payments

	// now is swappable in tests.
	now func() time.Time
}

// NewBoostUseCase creates the usecase with its collaborators.
func NewBoostUseCase(repo port.BoostRepository, payments port.PaymentProvider, logger *slog.Logger, boostCfg configs.Boost, payCfg configs.Payments) *BoostUseCase {
	return &BoostUseCase{
		repo:     repo,
		payments: payments,
		logger:   logger,
		boostCfg: boostCfg,
		payCfg:   payCfg,
		now:      time.Now,
	}
}

// sweep lazily expires stale boosts. It must run before any read or write
// that depends on which listings are currently boosted, otherwise the
// active-slot invariant would wrongly block a new purchase after an old
// boost timed out without its row being updated.
func (u *BoostUseCase) sweep(ctx context.Context, now time.Time) error {
	n, err := u.repo.ExpireStale(ctx, now)
	if err != nil {
		return fmt.Errorf("expire sweep: %w", err)
	}
	if n > 0 {
		u.logger.Debug("expired stale boosts", slog.Int64("count", n))
	}
	return nil
}

// activeBoostFor reports whether listingID holds an active, unexpired
// boost. Callers must sweep first.
func (u *BoostUseCase) activeBoostFor(ctx context.Context, listingID string, now time.Time) (bool, error) {
	active, err := u.repo.ActiveBoosts(ctx, now)
	if err != nil {
		return false, err
	}
	for i := range active {
		if active[i].Boost.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

// DurationTiers lists the purchasable tiers. With a caller identity the
// response also carries the Pro flag and today's free-boost availability.
func (u *BoostUseCase) DurationTiers(ctx context.Context, userID string) (*port.TiersResp, error) {
	resp := &port.TiersResp{}
	for _, h := range domain.DurationTiers {
		resp.Tiers = append(resp.Tiers, port.DurationTier{
			Label:      tierLabels[h],
			Hours:      h,
			PriceCents: u.payCfg.PriceCents(h),
		})
	}
	if userID == "" {
		return resp, nil
	}
	user, err := u.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		resp.IsPro = user.IsPro
		resp.FreeBoostAvailable = user.FreeBoostAvailable(domain.ResetDay(u.now()))
	}
	return resp, nil
}

// BoostStatus reports the caller's free-boost entitlement state, including
// the countdown a client renders when today's free boost is spent.
func (u *BoostUseCase) BoostStatus(ctx context.Context, userID string) (*port.BoostStatusResp, error) {
	user, err := u.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	now := u.now()
	return &port.BoostStatusResp{
		IsPro:              user.IsPro,
		FreeBoostAvailable: user.FreeBoostAvailable(domain.ResetDay(now)),
		CountdownSeconds:   domain.SecondsUntilReset(now),
		LastUsedDay:        user.ProFreeBoostLastUsedDay,
	}, nil
}

// Rules returns the carousel constants.
func (u *BoostUseCase) Rules() *port.RulesResp {
	return &port.RulesResp{
		CarouselSlots:  u.boostCfg.CarouselSlots,
		PerSellerCap:   u.boostCfg.SellerCap,
		PaidWeight:     domain.BoostPaid.Weight(),
		FreeWeight:     domain.BoostFreePro.Weight(),
		FreeBoostHours: domain.BoostFreePro.DefaultDurationHours(),
	}
}

// ActivateFreeBoost grants the caller's daily free boost to one of their
// listings. The boost insert and the quota flag update commit atomically;
// a storage-layer conflict (a genuine race past the pre-check) surfaces as
// domain.ErrAlreadyBoosted with no quota consumed.
func (u *BoostUseCase) ActivateFreeBoost(ctx context.Context, userID, listingID string) (*port.BoostSummary, error) {
	listing, err := u.repo.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, domain.ErrListingNotFound
	}
	if listing.SellerID != userID {
		return nil, domain.ErrForbidden
	}

	user, err := u.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsPro {
		return nil, domain.ErrProRequired
	}

	now := u.now()
	day := domain.ResetDay(now)
	if user.ProFreeBoostLastUsedDay == day {
		return nil, &domain.RateLimitedError{ResetSeconds: domain.SecondsUntilReset(now)}
	}

	if err = u.sweep(ctx, now); err != nil {
		return nil, err
	}
	busy, err := u.activeBoostFor(ctx, listingID, now)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, domain.ErrAlreadyBoosted
	}

	hours := domain.BoostFreePro.DefaultDurationHours()
	boost := &domain.Boost{
		ID:            uuid.NewString(),
		ListingID:     listingID,
		StartsAt:      now,
		EndsAt:        now.Add(time.Duration(hours) * time.Hour),
		Status:        domain.BoostActive,
		DurationHours: hours,
		PaidCents:     0,
		Type:          domain.BoostFreePro,
		CreatedAt:     now,
	}
	if err = u.repo.InsertFreeBoost(ctx, boost, userID, day); err != nil {
		return nil, err
	}

	u.logger.Info("free boost activated",
		slog.String("listing_id", listingID),
		slog.String("user_id", userID))
	return &port.BoostSummary{
		ID:        boost.ID,
		ListingID: boost.ListingID,
		EndsAt:    boost.EndsAt,
		Hours:     boost.DurationHours,
		Type:      string(boost.Type),
	}, nil
}

// StartCheckout opens a payment-collection session for a paid boost and
// returns the redirect URL. No boost row exists until the provider
// confirms; a racing second checkout is resolved at confirmation time.
func (u *BoostUseCase) StartCheckout(ctx context.Context, userID, listingID string, hours int) (string, error) {
	if !domain.ValidDuration(hours) {
		return "", domain.ErrInvalidDuration
	}
	price := u.payCfg.PriceCents(hours)
	if price <= 0 {
		return "", domain.ErrPriceNotConfigured
	}

	listing, err := u.repo.GetListing(ctx, listingID)
	if err != nil {
		return "", err
	}
	if listing == nil {
		return "", domain.ErrListingNotFound
	}
	if listing.SellerID != userID {
		return "", domain.ErrForbidden
	}

	now := u.now()
	if err = u.sweep(ctx, now); err != nil {
		return "", err
	}
	busy, err := u.activeBoostFor(ctx, listingID, now)
	if err != nil {
		return "", err
	}
	if busy {
		return "", domain.ErrAlreadyBoosted
	}

	customerID, err := u.ensureCustomer(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := u.payments.CreateCheckoutSession(ctx, port.CheckoutParams{
		CustomerID:  customerID,
		AmountCents: price,
		Description: fmt.Sprintf("Listing boost, %s", tierLabels[hours]),
		ListingID:   listingID,
		UserID:      userID,
		Hours:       hours,
	})
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return url, nil
}

// ensureCustomer resolves the caller's billing identity, creating and
// caching a provider customer on first use.
func (u *BoostUseCase) ensureCustomer(ctx context.Context, userID string) (string, error) {
	customerID, err := u.repo.GetPaymentCustomer(ctx, userID)
	if err != nil {
		return "", err
	}
	if customerID != "" {
		return customerID, nil
	}

	user, err := u.repo.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrUserNotFound
	}
	customerID, err = u.payments.EnsureCustomer(ctx, user.ID, user.Email, user.DisplayName)
	if err != nil {
		return "", fmt.Errorf("ensure payment customer: %w", err)
	}
	if err = u.repo.SavePaymentCustomer(ctx, userID, customerID); err != nil {
		return "", err
	}
	return customerID, nil
}

// ConfirmPayment handles the asynchronous provider callback. The payload is
// untrusted until its signature verifies. If the listing's slot filled
// while the checkout was in flight, the confirmation is logged for manual
// reconciliation and dropped: the boost is never granted twice.
func (u *BoostUseCase) ConfirmPayment(ctx context.Context, payload []byte, signature string) error {
	conf, err := u.payments.VerifyConfirmation(payload, signature)
	if err != nil {
		return err
	}
	if conf.ListingID == "" || conf.UserID == "" || !domain.ValidDuration(conf.Hours) {
		u.logger.Error("payment confirmation with unusable metadata",
			slog.String("session_id", conf.SessionID))
		return domain.ErrBadSignature
	}

	listing, err := u.repo.GetListing(ctx, conf.ListingID)
	if err != nil {
		return err
	}
	if listing == nil {
		u.logger.Warn("payment confirmation for missing listing, dropping",
			slog.String("listing_id", conf.ListingID),
			slog.String("session_id", conf.SessionID),
			slog.Int64("amount_cents", conf.AmountCents))
		return nil
	}

	now := u.now()
	if err = u.sweep(ctx, now); err != nil {
		return err
	}
	busy, err := u.activeBoostFor(ctx, conf.ListingID, now)
	if err != nil {
		return err
	}

	boost := &domain.Boost{
		ID:            uuid.NewString(),
		ListingID:     conf.ListingID,
		StartsAt:      now,
		EndsAt:        now.Add(time.Duration(conf.Hours) * time.Hour),
		Status:        domain.BoostActive,
		DurationHours: conf.Hours,
		PaidCents:     conf.AmountCents,
		Type:          domain.BoostPaid,
		CreatedAt:     now,
	}

	if !busy {
		err = u.repo.InsertBoost(ctx, boost)
	}
	if busy || errors.Is(err, domain.ErrAlreadyBoosted) {
		// Money was collected but the slot filled meanwhile. Accepted
		// tradeoff: drop the grant, leave a trail for manual
		// reconciliation.
		u.logger.Warn("paid boost dropped, slot already occupied",
			slog.String("listing_id", conf.ListingID),
			slog.String("session_id", conf.SessionID),
			slog.String("user_id", conf.UserID),
			slog.Int64("amount_cents", conf.AmountCents))
		return nil
	}
	if err != nil {
		return err
	}

	u.logger.Info("paid boost activated",
		slog.String("listing_id", conf.ListingID),
		slog.Int("hours", conf.Hours),
		slog.Int64("amount_cents", conf.AmountCents))
	return nil
}

// ImpressionStats aggregates the impression log over a period.
func (u *BoostUseCase) ImpressionStats(ctx context.Context, req port.StatsReq) (*port.StatsResp, error) {
	return u.repo.ImpressionStats(ctx, req)
}
