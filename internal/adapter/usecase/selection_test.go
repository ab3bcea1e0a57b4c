package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocket-market/internal/core/domain"
	"pocket-market/internal/core/port"
)

// seedActive plants n active boosts on n listings with the given seller
// assignment, creation-ordered.
func seedActive(repo *fakeRepo, now time.Time, n int, seller func(i int) string, typ func(i int) domain.BoostType) {
	for i := 0; i < n; i++ {
		listingID := fmt.Sprintf("L%02d", i)
		repo.addListing(domain.Listing{ID: listingID, SellerID: seller(i), Title: listingID})
		repo.addBoost(domain.Boost{
			ID:        fmt.Sprintf("b%02d", i),
			ListingID: listingID,
			Status:    domain.BoostActive,
			Type:      typ(i),
			StartsAt:  now.Add(-time.Hour),
			EndsAt:    now.Add(time.Hour),
			CreatedAt: now.Add(time.Duration(i-100) * time.Minute),
		})
	}
}

func distinctSellers(i int) string { return fmt.Sprintf("s%02d", i) }

func allPaid(int) domain.BoostType { return domain.BoostPaid }

func TestFeaturedEmpty(t *testing.T) {
	u := newTestUseCase(newFakeRepo(), &fakeProvider{})
	batch, err := u.Featured(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, batch, "empty carousel is a normal outcome")
}

func TestFeaturedRecordsImpressions(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	seedActive(repo, now, 3, distinctSellers, allPaid)

	u := newTestUseCase(repo, &fakeProvider{})
	u.now = fixedClock(now)

	viewer := "v1"
	batch, err := u.Featured(context.Background(), &viewer)
	require.NoError(t, err)
	assert.Len(t, batch, 3)
	require.Len(t, repo.impressions, 3)
	assert.Equal(t, "v1", *repo.impressions[0].ViewerID)
	assert.Equal(t, now, repo.impressions[0].ShownAt)
}

// With N active boosts and batch size B < N, every boost must appear in
// some batch within ceil(N/B) consecutive calls: the rotating window
// guarantees coverage regardless of the weighted draw.
func TestRotationCoverage(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	seedActive(repo, now, 25, distinctSellers, allPaid)

	u := newTestUseCase(repo, &fakeProvider{})
	u.now = fixedClock(now)

	seen := make(map[string]bool)
	calls := 3 // ceil(25/10)
	for i := 0; i < calls; i++ {
		batch, err := u.Featured(context.Background(), nil)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(batch), 10)
		for _, f := range batch {
			seen[f.ListingID] = true
		}
	}
	assert.Len(t, seen, 25, "every active boost surfaced within ceil(N/B) calls")
}

func TestSellerCap(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	// one seller floods five listings
	seedActive(repo, now, 5, func(int) string { return "whale" }, allPaid)

	u := newTestUseCase(repo, &fakeProvider{})
	u.now = fixedClock(now)

	for i := 0; i < 20; i++ {
		batch, err := u.Featured(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, batch, 2, "partial batch capped at the per-seller limit")
	}
}

func TestNoRepeatWithinBatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	seedActive(repo, now, 8, distinctSellers, allPaid)

	u := newTestUseCase(repo, &fakeProvider{})
	u.now = fixedClock(now)

	for i := 0; i < 20; i++ {
		batch, err := u.Featured(context.Background(), nil)
		require.NoError(t, err)
		seen := make(map[string]bool)
		for _, f := range batch {
			assert.False(t, seen[f.ListingID], "listing repeated in one batch")
			seen[f.ListingID] = true
		}
	}
}

func TestSelectionSkipsUndisplayable(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	seedActive(repo, now, 4, distinctSellers, allPaid)

	// L01 sold, L02 drafted after their boosts were created
	repo.mu.Lock()
	repo.listings["L01"].IsSold = true
	repo.listings["L02"].IsDraft = true
	repo.mu.Unlock()

	u := newTestUseCase(repo, &fakeProvider{})
	u.now = fixedClock(now)

	batch, err := u.Featured(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, batch, 2, "sold and draft listings skipped silently")
	for _, f := range batch {
		assert.NotEqual(t, "L01", f.ListingID)
		assert.NotEqual(t, "L02", f.ListingID)
	}
}

// The active-slot invariant: whatever sequence of grants runs, a listing
// never ends up with two active boosts.
func TestActiveSlotInvariant(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	repo.addListing(domain.Listing{ID: "L1", SellerID: "s"})

	mk := func() *domain.Boost {
		return &domain.Boost{
			ID: fmt.Sprintf("b%d", time.Now().UnixNano()), ListingID: "L1",
			Status: domain.BoostActive, EndsAt: now.Add(time.Hour), CreatedAt: now,
		}
	}
	require.NoError(t, repo.InsertBoost(ctx, mk()))
	assert.ErrorIs(t, repo.InsertBoost(ctx, mk()), domain.ErrAlreadyBoosted)

	active, _ := repo.ActiveBoosts(ctx, now)
	assert.Len(t, active, 1)
}

// Weighted ordering: with one paid and one free boost both in the batch,
// the paid one should lead the carousel about weight_paid/(weight_paid+
// weight_free) = 75% of the time. Statistical, generous bounds.
func TestPaidWeighting(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	seedActive(repo, now, 2, distinctSellers, func(i int) domain.BoostType {
		if i == 0 {
			return domain.BoostPaid
		}
		return domain.BoostFreePro
	})

	u := newTestUseCase(repo, &fakeProvider{})
	u.now = fixedClock(now)

	trials := 2000
	paidFirst := 0
	for i := 0; i < trials; i++ {
		batch, err := u.Featured(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, batch, 2)
		if batch[0].BoostType == string(domain.BoostPaid) {
			paidFirst++
		}
	}
	ratio := float64(paidFirst) / float64(trials)
	assert.InDelta(t, 0.75, ratio, 0.05, "paid leads ~3:1 against free")
}

var _ port.BoostUseCase = (*BoostUseCase)(nil)
