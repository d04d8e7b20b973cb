package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kiralet-engine/internal/domain"
)

// UpsertRentals caches a renter's rental rows from the backend, stamping
// fetched_at so the cache can expire.
func UpsertRentals(ctx context.Context, db *sql.DB, renterID string, rentals []domain.Rental) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rentals WHERE renter_id = ?;`, renterID); err != nil {
		return fmt.Errorf("clear rentals: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range rentals {
		if _, err := tx.ExecContext(ctx, `
INSERT OR REPLACE INTO rentals (id, listing_id, renter_id, status, created_at, fetched_at)
VALUES (?, ?, ?, ?, ?, ?);`,
			r.ID, r.ListingID, renterID, r.Status, r.CreatedAt, now,
		); err != nil {
			return fmt.Errorf("insert rental %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// ListRentalsForRenter returns cached rentals newest-first, plus the oldest
// fetch stamp so callers can decide whether the cache is stale.
func ListRentalsForRenter(ctx context.Context, db *sql.DB, renterID string) ([]domain.Rental, time.Time, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, listing_id, renter_id, status, created_at, fetched_at
FROM rentals
WHERE renter_id = ?
ORDER BY created_at DESC;`, renterID)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var out []domain.Rental
	var oldest time.Time
	for rows.Next() {
		var r domain.Rental
		var fetchedStr string
		if err := rows.Scan(&r.ID, &r.ListingID, &r.RenterID, &r.Status, &r.CreatedAt, &fetchedStr); err != nil {
			return nil, time.Time{}, err
		}
		if ts, err := time.Parse(time.RFC3339, fetchedStr); err == nil {
			if oldest.IsZero() || ts.Before(oldest) {
				oldest = ts
			}
		}
		out = append(out, r)
	}
	return out, oldest, rows.Err()
}
