package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"kiralet-engine/internal/catalog"
	"kiralet-engine/internal/config"
	"kiralet-engine/internal/domain"
	"kiralet-engine/internal/events"
	"kiralet-engine/internal/history"
	"kiralet-engine/internal/httpapi"
	"kiralet-engine/internal/ratelimit"
	"kiralet-engine/internal/refresh"
	"kiralet-engine/internal/rental"
	"kiralet-engine/internal/secrets"
	"kiralet-engine/internal/store"
)

func main() {
	// Engine data dir: use env if provided (the desktop shell can pass
	// one), else local folder.
	dataDir := os.Getenv("KIRALET_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	userCfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfg, vr := config.NormalizeAndValidate(cfg)
	for _, warning := range vr.Warnings {
		log.Printf("[config] warning: %s", warning)
	}
	if !vr.OK() {
		log.Fatalf("config invalid (%s): %v", userCfgPath, vr.Errors)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "kiralet.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()
	histStore := history.NewStore(dataDir)
	limiter := ratelimit.NewHostLimiter(4.0, 8)

	// Clients are rebuilt per use so config/key changes apply without a
	// restart. A missing keyring entry degrades to unauthenticated calls.
	newClients := func() (refresh.Clients, error) {
		c := cfgVal.Load().(config.Config)
		if c.Backend.BaseURL == "" {
			return refresh.Clients{}, fmt.Errorf("backend.base_url not configured")
		}
		key, err := secrets.GetBackendKey(secrets.BackendKeyringAccount(c))
		if err != nil {
			key = ""
		}
		return refresh.Clients{
			Catalog: catalog.New(c.Backend.BaseURL, key, limiter),
			Rental:  rental.New(c.Backend.BaseURL, key, limiter),
		}, nil
	}

	var refreshStatus atomic.Value
	refreshStatus.Store(refresh.Status{})
	refresher := &refresh.Refresher{
		DB:         db.Pool,
		Hub:        hub,
		StatusVal:  &refreshStatus,
		NewClients: newClients,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Backend.BaseURL != "" {
		interval := time.Duration(cfg.Polling.SnapshotSeconds) * time.Second
		refresher.StartLoop(ctx, interval)
	} else {
		log.Printf("[main] no backend configured; serving cached snapshot only")
	}

	rentedIDs := func(ctx context.Context, viewerID string) (map[string]bool, error) {
		c := cfgVal.Load().(config.Config)
		ttl := time.Duration(c.Polling.RentalsTTLSeconds) * time.Second

		cached, fetchedAt, cacheErr := store.ListRentalsForRenter(ctx, db.Pool, viewerID)
		if cacheErr == nil && len(cached) > 0 && time.Since(fetchedAt) < ttl {
			return domain.ActiveListingIDs(cached), nil
		}

		clients, err := newClients()
		if err != nil || clients.Rental == nil {
			// No backend: serve whatever the cache has.
			return domain.ActiveListingIDs(cached), nil
		}
		rentals, err := clients.Rental.FetchForRenter(ctx, viewerID)
		if err != nil {
			log.Printf("[rentals] fetch viewer=%s error: %v (using cache)", viewerID, err)
			return domain.ActiveListingIDs(cached), nil
		}
		if err := store.UpsertRentals(ctx, db.Pool, viewerID, rentals); err != nil {
			log.Printf("[rentals] cache write viewer=%s error: %v", viewerID, err)
		}
		return domain.ActiveListingIDs(rentals), nil
	}

	deps := httpapi.Deps{
		DB:            db.Pool,
		Hub:           hub,
		History:       histStore,
		CfgVal:        &cfgVal,
		RefreshStatus: &refreshStatus,
		UserCfgPath:   userCfgPath,
		LoadCfg:       loadCfg,
		RentedIDs:     rentedIDs,
		RunRefresh:    refresher.RunOnce,
	}
	mux := httpapi.NewMux(deps)

	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.Cors,
			httpapi.RequestID,
			httpapi.AccessLog,
			httpapi.Recover,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))

	log.Printf("engine listening on http://%s (db=%s)", addr, dbPath)
	log.Printf("shutdown token: %s", token)

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
