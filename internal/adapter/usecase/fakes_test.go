package usecase

import (
	"context"
	"sync"
	"time"

	"pocket-market/internal/core/domain"
	"pocket-market/internal/core/port"
)

// fakeRepo is a stateful in-memory port.BoostRepository. It reproduces the
// storage-layer semantics the usecase depends on: the active-slot unique
// constraint, the atomic free-boost grant, and the shared rotation cursor.
type fakeRepo struct {
	mu          sync.Mutex
	boosts      []*domain.Boost
	listings    map[string]*domain.Listing
	users       map[string]*domain.User
	impressions []domain.Impression
	customers   map[string]string
	cursor      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		listings:  make(map[string]*domain.Listing),
		users:     make(map[string]*domain.User),
		customers: make(map[string]string),
	}
}

func (f *fakeRepo) addUser(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = &u
}

func (f *fakeRepo) addListing(l domain.Listing) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listings[l.ID] = &l
}

func (f *fakeRepo) addBoost(b domain.Boost) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boosts = append(f.boosts, &b)
}

// activeCount reports how many boosts are active for a listing, regardless
// of ends_at, mirroring the partial unique index scope.
func (f *fakeRepo) activeCountLocked(listingID string) int {
	n := 0
	for _, b := range f.boosts {
		if b.ListingID == listingID && b.Status == domain.BoostActive {
			n++
		}
	}
	return n
}

func (f *fakeRepo) InsertBoost(_ context.Context, b *domain.Boost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activeCountLocked(b.ListingID) > 0 {
		return domain.ErrAlreadyBoosted
	}
	cp := *b
	f.boosts = append(f.boosts, &cp)
	return nil
}

func (f *fakeRepo) InsertFreeBoost(_ context.Context, b *domain.Boost, userID, day string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.ProFreeBoostLastUsedDay == day {
		return &domain.RateLimitedError{ResetSeconds: domain.SecondsUntilReset(time.Now())}
	}
	if f.activeCountLocked(b.ListingID) > 0 {
		// boost insert rejected, quota flag untouched
		return domain.ErrAlreadyBoosted
	}
	cp := *b
	f.boosts = append(f.boosts, &cp)
	u.ProFreeBoostLastUsedDay = day
	return nil
}

func (f *fakeRepo) ActiveBoosts(_ context.Context, now time.Time) ([]port.ActiveBoost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []port.ActiveBoost
	for _, b := range f.boosts {
		if b.Status != domain.BoostActive || !b.EndsAt.After(now) {
			continue
		}
		l, ok := f.listings[b.ListingID]
		if !ok {
			// inner join drops boosts whose listing vanished
			continue
		}
		out = append(out, port.ActiveBoost{Boost: *b, Listing: *l})
	}
	return out, nil
}

func (f *fakeRepo) ExpireStale(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, b := range f.boosts {
		if b.Status == domain.BoostActive && !b.EndsAt.After(now) {
			b.Status = domain.BoostExpired
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) AdvanceRotation(_ context.Context, step, total int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	start := f.cursor % total
	f.cursor = (f.cursor + step) % total
	return start, nil
}

func (f *fakeRepo) RecordImpressions(_ context.Context, imps []domain.Impression) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.impressions = append(f.impressions, imps...)
	return nil
}

func (f *fakeRepo) ImpressionStats(_ context.Context, req port.StatsReq) (*port.StatsResp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	resp := &port.StatsResp{}
	viewers := make(map[string]bool)
	for _, imp := range f.impressions {
		if imp.ShownAt.Before(req.From) || imp.ShownAt.After(req.To) {
			continue
		}
		if req.BoostID != nil && imp.BoostID != *req.BoostID {
			continue
		}
		resp.Impressions++
		if imp.ViewerID != nil {
			viewers[*imp.ViewerID] = true
		}
	}
	resp.UniqueViewers = int64(len(viewers))
	return resp, nil
}

func (f *fakeRepo) GetUser(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetListing(_ context.Context, id string) (*domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.listings[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f *fakeRepo) GetPaymentCustomer(_ context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.customers[userID], nil
}

func (f *fakeRepo) SavePaymentCustomer(_ context.Context, userID, customerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customers[userID] = customerID
	return nil
}

// fakeProvider is a canned port.PaymentProvider. VerifyConfirmation accepts
// only the signature "valid" and returns the preset confirmation.
type fakeProvider struct {
	confirmation port.Confirmation
	sessions     int
}

func (p *fakeProvider) EnsureCustomer(_ context.Context, userID, _, _ string) (string, error) {
	return "cus_" + userID, nil
}

func (p *fakeProvider) CreateCheckoutSession(_ context.Context, _ port.CheckoutParams) (string, error) {
	p.sessions++
	return "https://payments.example.com/checkout/sess_1", nil
}

func (p *fakeProvider) VerifyConfirmation(_ []byte, signature string) (*port.Confirmation, error) {
	if signature != "valid" {
		return nil, domain.ErrBadSignature
	}
	cp := p.confirmation
	return &cp, nil
}
