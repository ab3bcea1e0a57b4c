package db

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo data into the pocket-market database: a handful of
// sellers (some Pro), listings for each, and a mix of paid and free boosts
// so the featured carousel has something to rotate through.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	now := time.Now().UTC()
	hours := []int{24, 72, 168}
	prices := map[int]int64{24: 300, 72: 700, 168: 1200}

	for i := 1; i <= 5; i++ {
		userID := uuid.NewString()
		email := fmt.Sprintf("seller%d@example.com", i)
		isPro := i%2 == 1
		_, err := db.Exec(ctx, `INSERT INTO users (id, email, display_name, is_pro, created_at)
VALUES ($1,$2,$3,$4,now()) ON CONFLICT (email) DO NOTHING`,
			userID, email, fmt.Sprintf("Seller %d", i), isPro)
		if err != nil {
			return err
		}

		for j := 1; j <= 4; j++ {
			listingID := uuid.NewString()
			title := fmt.Sprintf("Demo item %d-%d", i, j)
			price := int64(500 + r.Intn(20000))
			_, err = db.Exec(ctx, `INSERT INTO listings (id, seller_id, title, price_cents, created_at)
VALUES ($1,$2,$3,$4,now()) ON CONFLICT DO NOTHING`,
				listingID, userID, title, price)
			if err != nil {
				return err
			}

			// boost roughly half the listings
			if j%2 != 0 {
				continue
			}
			h := hours[r.Intn(len(hours))]
			boostType := "paid"
			paid := prices[h]
			if isPro && j == 2 {
				boostType = "free_pro"
				h = 24
				paid = 0
			}
			_, err = db.Exec(ctx, `INSERT INTO boosts
    (id, listing_id, starts_at, ends_at, status, duration_hours, paid_cents, boost_type, created_at)
VALUES ($1,$2,$3,$4,'active',$5,$6,$7,now()) ON CONFLICT DO NOTHING`,
				uuid.NewString(), listingID, now, now.Add(time.Duration(h)*time.Hour), h, paid, boostType)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
