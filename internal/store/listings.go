package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"kiralet-engine/internal/domain"
)

// ReplaceSnapshot swaps the cached catalog for a fresh one in a single
// transaction. The backend serves listings newest-first; position preserves
// that order across restarts.
func ReplaceSnapshot(ctx context.Context, db *sql.DB, listings []domain.Listing) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM listings;`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO listings (id, title, description, tags, features, daily_price, owner_id, view_count, created_at, position)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, l := range listings {
		tagsB, _ := json.Marshal(l.Tags)
		featB, _ := json.Marshal(l.Features)
		if _, err := stmt.ExecContext(ctx,
			l.ID, l.Title, l.Description, string(tagsB), string(featB),
			l.DailyPrice, l.OwnerID, l.ViewCount, l.CreatedAt, i,
		); err != nil {
			return fmt.Errorf("insert listing %s: %w", l.ID, err)
		}
	}

	return tx.Commit()
}

// LoadSnapshot returns the cached catalog in its original (newest-first)
// backend order.
func LoadSnapshot(ctx context.Context, db *sql.DB) ([]domain.Listing, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, title, description, tags, features, daily_price, owner_id, view_count, created_at
FROM listings
ORDER BY position ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		var l domain.Listing
		var tagsJSON, featJSON string
		if err := rows.Scan(&l.ID, &l.Title, &l.Description, &tagsJSON, &featJSON,
			&l.DailyPrice, &l.OwnerID, &l.ViewCount, &l.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &l.Tags)
		_ = json.Unmarshal([]byte(featJSON), &l.Features)
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetListing fetches one cached listing by id.
func GetListing(ctx context.Context, db *sql.DB, id string) (domain.Listing, bool, error) {
	var l domain.Listing
	var tagsJSON, featJSON string
	err := db.QueryRowContext(ctx, `
SELECT id, title, description, tags, features, daily_price, owner_id, view_count, created_at
FROM listings WHERE id = ?;`, id).Scan(
		&l.ID, &l.Title, &l.Description, &tagsJSON, &featJSON,
		&l.DailyPrice, &l.OwnerID, &l.ViewCount, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.Listing{}, false, nil
	}
	if err != nil {
		return domain.Listing{}, false, err
	}
	_ = json.Unmarshal([]byte(tagsJSON), &l.Tags)
	_ = json.Unmarshal([]byte(featJSON), &l.Features)
	return l, true, nil
}

// CountListings reports the snapshot size.
func CountListings(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings;`).Scan(&n)
	return n, err
}
