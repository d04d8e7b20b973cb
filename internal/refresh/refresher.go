// Package refresh keeps the engine's catalog snapshot and rental caches in
// step with the hosted backend.
package refresh

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"kiralet-engine/internal/catalog"
	"kiralet-engine/internal/events"
	"kiralet-engine/internal/rental"
	"kiralet-engine/internal/store"
)

// Clients bundles the backend clients for one refresh pass. A factory
// builds them per run so config/key changes take effect without restart.
type Clients struct {
	Catalog *catalog.Client
	Rental  *rental.Client
}

type Refresher struct {
	DB         *sql.DB
	Hub        *events.Hub
	StatusVal  *atomic.Value // stores refresh.Status
	NewClients func() (Clients, error)
}

// RunOnce pulls a fresh catalog snapshot and, in parallel, re-fetches the
// rental cache for every renter the engine has served before. Partial
// rental failures don't fail the run; a catalog failure does.
func (r *Refresher) RunOnce(ctx context.Context) error {
	r.setStatus(func(st *Status) {
		st.Running = true
		st.LastRunAt = time.Now().UTC().Format(time.RFC3339)
	})

	err := r.runOnce(ctx)

	r.setStatus(func(st *Status) {
		st.Running = false
		if err != nil {
			st.LastError = err.Error()
		} else {
			st.LastError = ""
			st.LastOkAt = time.Now().UTC().Format(time.RFC3339)
		}
	})
	return err
}

func (r *Refresher) runOnce(ctx context.Context) error {
	clients, err := r.NewClients()
	if err != nil {
		return err
	}
	if clients.Catalog == nil {
		return fmt.Errorf("no backend configured")
	}

	renters, err := knownRenters(ctx, r.DB)
	if err != nil {
		log.Printf("[refresh] renter scan error: %v", err)
	}

	var g errgroup.Group
	var count int

	g.Go(func() error {
		listings, err := clients.Catalog.FetchAll(ctx)
		if err != nil {
			return fmt.Errorf("fetch catalog: %w", err)
		}
		if err := store.ReplaceSnapshot(ctx, r.DB, listings); err != nil {
			return fmt.Errorf("store snapshot: %w", err)
		}
		count = len(listings)
		return nil
	})

	for _, renterID := range renters {
		renterID := renterID
		g.Go(func() error {
			if clients.Rental == nil {
				return nil
			}
			rentals, err := clients.Rental.FetchForRenter(ctx, renterID)
			if err != nil {
				// stale cache beats a failed refresh
				log.Printf("[refresh] rentals renter=%s error: %v", renterID, err)
				return nil
			}
			if err := store.UpsertRentals(ctx, r.DB, renterID, rentals); err != nil {
				log.Printf("[refresh] rentals store renter=%s error: %v", renterID, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	r.setStatus(func(st *Status) { st.Listings = count })
	r.Hub.Publish(events.MakeEvent("", events.TypeSnapshotRefreshed, 1, map[string]any{"listings": count}))
	log.Printf("[refresh] ok listings=%d renters=%d", count, len(renters))
	return nil
}

// StartLoop runs RunOnce immediately and then on every tick until ctx ends.
func (r *Refresher) StartLoop(ctx context.Context, interval time.Duration) {
	go func() {
		if err := r.RunOnce(ctx); err != nil {
			log.Printf("[refresh] error: %v", err)
		}

		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := r.RunOnce(ctx); err != nil {
					log.Printf("[refresh] error: %v", err)
				}
			}
		}
	}()
}

func (r *Refresher) setStatus(mut func(*Status)) {
	st := Status{}
	if v := r.StatusVal.Load(); v != nil {
		st = v.(Status)
	}
	mut(&st)
	r.StatusVal.Store(st)
}

func knownRenters(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT renter_id FROM rentals;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		if id != "" {
			out = append(out, id)
		}
	}
	return out, rows.Err()
}
