package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pocket-market/internal/core/domain"
	"pocket-market/internal/core/port"
)

// uniqueViolation is the SQLSTATE raised when the partial unique index on
// active boosts rejects a second active row for a listing.
const uniqueViolation = "23505"

// BoostRepository implements port.BoostRepository using pgxpool for
// PostgreSQL.
type BoostRepository struct {
	pool *pgxpool.Pool
}

// NewBoostRepository returns a new repository instance.
func NewBoostRepository(pool *pgxpool.Pool) *BoostRepository {
	return &BoostRepository{pool: pool}
}

// InsertBoost stores a new boost row. A unique violation on the active-slot
// index is translated to domain.ErrAlreadyBoosted so callers treat the lost
// race as an ordinary conflict.
func (r *BoostRepository) InsertBoost(ctx context.Context, b *domain.Boost) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO boosts
    (id, listing_id, starts_at, ends_at, status, duration_hours, paid_cents, boost_type, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		b.ID, b.ListingID, b.StartsAt, b.EndsAt, b.Status, b.DurationHours, b.PaidCents, b.Type, b.CreatedAt)
	return translateConflict(err)
}

// InsertFreeBoost stores a free boost and consumes the owner's daily quota
// in one transaction. The user row is locked first so two concurrent free
// activations serialize on it; whichever loses the boost insert rolls the
// quota update back with it.
func (r *BoostRepository) InsertFreeBoost(ctx context.Context, b *domain.Boost, userID, day string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	var lastUsed *string
	err = tx.QueryRow(ctx, `SELECT pro_free_boost_last_used_day FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&lastUsed)
	if err != nil {
		return err
	}
	if lastUsed != nil && *lastUsed == day {
		err = &domain.RateLimitedError{ResetSeconds: domain.SecondsUntilReset(time.Now())}
		return err
	}

	_, err = tx.Exec(ctx, `INSERT INTO boosts
    (id, listing_id, starts_at, ends_at, status, duration_hours, paid_cents, boost_type, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		b.ID, b.ListingID, b.StartsAt, b.EndsAt, b.Status, b.DurationHours, b.PaidCents, b.Type, b.CreatedAt)
	if err != nil {
		err = translateConflict(err)
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE users SET pro_free_boost_last_used_day = $1 WHERE id = $2`, day, userID)
	return err
}

// ActiveBoosts returns all active, unexpired boosts oldest first, with the
// listing fields the selection engine filters on joined in.
func (r *BoostRepository) ActiveBoosts(ctx context.Context, now time.Time) ([]port.ActiveBoost, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT
            b.id, b.listing_id, b.starts_at, b.ends_at, b.status,
            b.duration_hours, b.paid_cents, b.boost_type, b.created_at,
            l.id, l.seller_id, l.title, l.price_cents, l.is_sold, l.is_draft, l.created_at
        FROM boosts b
        JOIN listings l ON l.id = b.listing_id
        WHERE b.status = 'active' AND b.ends_at > $1
        ORDER BY b.created_at ASC`, now)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (port.ActiveBoost, error) {
		var ab port.ActiveBoost
		err := row.Scan(
			&ab.Boost.ID,
			&ab.Boost.ListingID,
			&ab.Boost.StartsAt,
			&ab.Boost.EndsAt,
			&ab.Boost.Status,
			&ab.Boost.DurationHours,
			&ab.Boost.PaidCents,
			&ab.Boost.Type,
			&ab.Boost.CreatedAt,
			&ab.Listing.ID,
			&ab.Listing.SellerID,
			&ab.Listing.Title,
			&ab.Listing.PriceCents,
			&ab.Listing.IsSold,
			&ab.Listing.IsDraft,
			&ab.Listing.CreatedAt,
		)
		return ab, err
	})
}

// ExpireStale transitions active boosts whose window elapsed to expired.
func (r *BoostRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE boosts SET status = 'expired' WHERE status = 'active' AND ends_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// AdvanceRotation moves the shared rotation cursor forward by step modulo
// total and returns the window start (the cursor before the advance). The
// single-row UPDATE serializes concurrent callers, so each featured request
// gets its own window.
func (r *BoostRepository) AdvanceRotation(ctx context.Context, step, total int) (int, error) {
	if total <= 0 {
		return 0, fmt.Errorf("rotation total must be positive, got %d", total)
	}
	var next int
	err := r.pool.QueryRow(ctx,
		`UPDATE boost_rotation SET cursor = (cursor + $1) % $2 WHERE id RETURNING cursor`,
		step, total).Scan(&next)
	if err != nil {
		return 0, err
	}
	start := (next - step) % total
	if start < 0 {
		start += total
	}
	return start, nil
}

// RecordImpressions appends impression rows in one batch.
func (r *BoostRepository) RecordImpressions(ctx context.Context, imps []domain.Impression) error {
	if len(imps) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, imp := range imps {
		batch.Queue(`INSERT INTO boost_impressions (id, boost_id, viewer_user_id, shown_at) VALUES ($1,$2,$3,$4)`,
			imp.ID, imp.BoostID, imp.ViewerID, imp.ShownAt)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

// ImpressionStats aggregates the impression log for a period.
func (r *BoostRepository) ImpressionStats(ctx context.Context, req port.StatsReq) (*port.StatsResp, error) {
	args := []any{req.From, req.To}
	whereBoost := ""
	if req.BoostID != nil {
		whereBoost = "AND boost_id = $3"
		args = append(args, *req.BoostID)
	}
	query := fmt.Sprintf(`SELECT COALESCE(count(*),0), COALESCE(count(DISTINCT viewer_user_id),0)
        FROM boost_impressions WHERE shown_at >= $1 AND shown_at <= $2 %s`, whereBoost)
	var resp port.StatsResp
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&resp.Impressions, &resp.UniqueViewers); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetUser returns a user by id.
func (r *BoostRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var (
		u       domain.User
		name    *string
		lastDay *string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, display_name, is_pro, pro_free_boost_last_used_day FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &name, &u.IsPro, &lastDay)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if name != nil {
		u.DisplayName = *name
	}
	if lastDay != nil {
		u.ProFreeBoostLastUsedDay = *lastDay
	}
	return &u, nil
}

// GetListing returns a listing by id.
func (r *BoostRepository) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	err := r.pool.QueryRow(ctx,
		`SELECT id, seller_id, title, price_cents, is_sold, is_draft, created_at FROM listings WHERE id = $1`, id).
		Scan(&l.ID, &l.SellerID, &l.Title, &l.PriceCents, &l.IsSold, &l.IsDraft, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetPaymentCustomer returns the cached billing identity for a user.
func (r *BoostRepository) GetPaymentCustomer(ctx context.Context, userID string) (string, error) {
	var customerID string
	err := r.pool.QueryRow(ctx,
		`SELECT provider_customer_id FROM payment_customers WHERE user_id = $1`, userID).Scan(&customerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return customerID, nil
}

// SavePaymentCustomer stores a user's billing identity.
func (r *BoostRepository) SavePaymentCustomer(ctx context.Context, userID, customerID string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO payment_customers (user_id, provider_customer_id)
VALUES ($1,$2) ON CONFLICT (user_id) DO UPDATE SET provider_customer_id = EXCLUDED.provider_customer_id`,
		userID, customerID)
	return err
}

// translateConflict maps the active-slot unique violation to the domain
// conflict error, leaving other errors untouched.
func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrAlreadyBoosted
	}
	return err
}
