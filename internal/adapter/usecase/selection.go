package usecase

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"pocket-market/internal/core/domain"
	"pocket-market/internal/core/port"
)

// Featured selects the carousel batch. The engine balances three goals:
// paid boosts appear more often than free ones (weighted pool), no seller
// dominates a batch (per-seller cap), and no boost starves (a rotating
// window over the creation-ordered active list, advanced by batch size on
// every call, so each boost lands in some window within ceil(N/B) calls).
func (u *BoostUseCase) Featured(ctx context.Context, viewerID *string) ([]port.FeaturedListing, error) {
	now := u.now()
	if err := u.sweep(ctx, now); err != nil {
		return nil, err
	}

	active, err := u.repo.ActiveBoosts(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return []port.FeaturedListing{}, nil
	}

	batchSize := u.boostCfg.CarouselSlots
	window, err := u.nextWindow(ctx, active, batchSize)
	if err != nil {
		return nil, err
	}

	selected := selectBatch(window, batchSize, u.boostCfg.SellerCap)

	imps := make([]domain.Impression, 0, len(selected))
	out := make([]port.FeaturedListing, 0, len(selected))
	for _, ab := range selected {
		imps = append(imps, domain.Impression{
			ID:       uuid.NewString(),
			BoostID:  ab.Boost.ID,
			ViewerID: viewerID,
			ShownAt:  now,
		})
		out = append(out, port.FeaturedListing{
			ListingID:  ab.Listing.ID,
			Title:      ab.Listing.Title,
			PriceCents: ab.Listing.PriceCents,
			SellerID:   ab.Listing.SellerID,
			BoostType:  string(ab.Boost.Type),
			BoostEnds:  ab.Boost.EndsAt,
		})
	}
	// Impression logging is fire-and-forget: a failed write must not cost
	// the viewer their carousel.
	if err := u.repo.RecordImpressions(ctx, imps); err != nil {
		u.logger.Error("record impressions failed", slog.Any("error", err))
	}
	return out, nil
}

// nextWindow carves the rotating, wrapping slice of candidates this call
// may pick from. With fewer active boosts than the batch size the window is
// the whole list and rotation is a no-op.
func (u *BoostUseCase) nextWindow(ctx context.Context, active []port.ActiveBoost, batchSize int) ([]port.ActiveBoost, error) {
	if len(active) <= batchSize {
		return active, nil
	}
	start, err := u.repo.AdvanceRotation(ctx, batchSize, len(active))
	if err != nil {
		return nil, err
	}
	start %= len(active)
	window := make([]port.ActiveBoost, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		window = append(window, active[(start+i)%len(active)])
	}
	return window, nil
}

// selectBatch applies weighted, capped selection within one window: each
// candidate contributes weight(type) copies to a pool, the pool is
// shuffled, then scanned drawing without replacement. A listing appears at
// most once per batch and a seller at most sellerCap times; sold, draft or
// vanished listings are skipped silently. A partial batch is a normal
// outcome.
func selectBatch(window []port.ActiveBoost, batchSize, sellerCap int) []port.ActiveBoost {
	pool := make([]port.ActiveBoost, 0, len(window)*3)
	for _, ab := range window {
		for i := 0; i < ab.Boost.Type.Weight(); i++ {
			pool = append(pool, ab)
		}
	}
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	selected := make([]port.ActiveBoost, 0, batchSize)
	perSeller := make(map[string]int)
	seen := make(map[string]bool)
	for _, cand := range pool {
		if len(selected) >= batchSize {
			break
		}
		if seen[cand.Listing.ID] {
			continue
		}
		if !cand.Listing.Displayable() {
			continue
		}
		if perSeller[cand.Listing.SellerID] >= sellerCap {
			continue
		}
		selected = append(selected, cand)
		seen[cand.Listing.ID] = true
		perSeller[cand.Listing.SellerID]++
	}
	return selected
}
