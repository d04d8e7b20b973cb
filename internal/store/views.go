package store

import (
	"context"
	"database/sql"
)

// BumpView increments the local view counter for a listing and returns the
// new count. These are views reported by this client's UI; the backend's
// own counter arrives with the next snapshot.
func BumpView(ctx context.Context, db *sql.DB, listingID string) (int64, error) {
	_, err := db.ExecContext(ctx, `
INSERT INTO views (listing_id, count) VALUES (?, 1)
ON CONFLICT(listing_id) DO UPDATE SET count = count + 1;`, listingID)
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.QueryRowContext(ctx, `SELECT count FROM views WHERE listing_id = ?;`, listingID).Scan(&n)
	return n, err
}

// LocalViewCounts returns every locally-bumped counter keyed by listing id.
func LocalViewCounts(ctx context.Context, db *sql.DB) (map[string]int64, error) {
	rows, err := db.QueryContext(ctx, `SELECT listing_id, count FROM views;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var id string
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}
