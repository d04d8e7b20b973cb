package httpapi

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"
	"sync/atomic"

	"kiralet-engine/internal/config"
	"kiralet-engine/internal/domain"
	"kiralet-engine/internal/events"
	"kiralet-engine/internal/history"
	"kiralet-engine/internal/rank"
	"kiralet-engine/internal/store"
)

type ListingsHandler struct {
	DB        *sql.DB
	Hub       *events.Hub
	History   *history.Store
	CfgVal    *atomic.Value // config.Config
	RentedIDs func(ctx context.Context, viewerID string) (map[string]bool, error)
}

// List serves GET /listings?q=&tags=a,b — the home-page search. Tags are
// AND-filtered; an empty query returns the snapshot in catalog order.
func (h ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	catalog, err := store.LoadSnapshot(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "snapshot_load", err.Error())
		return
	}

	q := r.URL.Query()
	tags := splitTags(q.Get("tags"))
	results := rank.Search(catalog, tags, q.Get("q"))

	cfg := h.CfgVal.Load().(config.Config)
	if max := cfg.Search.MaxResults; max > 0 && len(results) > max {
		results = results[:max]
	}
	writeJSON(w, listingsResponse{Listings: results, Total: len(results)})
}

// Popular serves GET /listings/popular — the home-page "most viewed" strip.
// Locally-bumped view counts are merged over the backend's counters before
// sorting.
func (h ListingsHandler) Popular(w http.ResponseWriter, r *http.Request) {
	catalog, err := store.LoadSnapshot(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "snapshot_load", err.Error())
		return
	}

	local, err := store.LocalViewCounts(r.Context(), h.DB)
	if err != nil {
		log.Printf("[listings] local view counts error: %v", err)
	}
	if len(local) > 0 {
		merged := make([]domain.Listing, len(catalog))
		copy(merged, catalog)
		for i := range merged {
			merged[i].ViewCount += local[merged[i].ID]
		}
		catalog = merged
	}

	popular := rank.SortByPopularity(catalog)
	if len(popular) > popularLimit {
		popular = popular[:popularLimit]
	}
	writeJSON(w, listingsResponse{Listings: popular, Total: len(popular)})
}

// popularLimit is how many entries the home page strip shows.
const popularLimit = 4

// GetByPath serves GET /listings/{id} and dispatches the {id}/related and
// {id}/viewed subroutes.
func (h ListingsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id, rest := splitListingPath(r.URL.Path)
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "missing listing id")
		return
	}

	switch rest {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.get(w, r, id)
	case "related":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.related(w, r, id)
	case "viewed":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.viewed(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h ListingsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	l, ok, err := store.GetListing(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "listing_load", err.Error())
		return
	}
	if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such listing")
		return
	}
	writeJSON(w, l)
}

// related assembles the recommendation context for the detail view: focal
// listing, recently-viewed history resolved against the snapshot, and the
// viewer's non-rejected rentals. Upstream failures degrade to empty inputs
// rather than erroring the strip.
func (h ListingsHandler) related(w http.ResponseWriter, r *http.Request, id string) {
	focal, ok, err := store.GetListing(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "listing_load", err.Error())
		return
	}
	if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such listing")
		return
	}

	catalog, err := store.LoadSnapshot(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "snapshot_load", err.Error())
		return
	}

	recentlyViewed := h.recentListings(r.Context(), focal.ID)

	viewerID := strings.TrimSpace(r.URL.Query().Get("viewer"))
	rented := map[string]bool{}
	if viewerID != "" && h.RentedIDs != nil {
		if ids, err := h.RentedIDs(r.Context(), viewerID); err != nil {
			log.Printf("[listings] rented ids viewer=%s error: %v", viewerID, err)
		} else {
			rented = ids
		}
	}

	related := rank.Recommend(catalog, focal, recentlyViewed, rented, viewerID)
	writeJSON(w, listingsResponse{Listings: related, Total: len(related)})
}

func (h ListingsHandler) viewed(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok, err := store.GetListing(r.Context(), h.DB, id); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "listing_load", err.Error())
		return
	} else if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such listing")
		return
	}

	if err := h.History.Push(id); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "history_write", err.Error())
		return
	}
	count, err := store.BumpView(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "view_bump", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeListingViewed, 1, map[string]any{"id": id, "local_views": count}))
	writeJSON(w, map[string]any{"ok": true, "id": id, "local_views": count})
}

// recentListings resolves history ids to snapshot listings, skipping the
// focal listing and ids that have since left the catalog.
func (h ListingsHandler) recentListings(ctx context.Context, focalID string) []domain.Listing {
	ids, err := h.History.List()
	if err != nil {
		log.Printf("[listings] history read error: %v", err)
		return nil
	}

	var out []domain.Listing
	for _, id := range ids {
		if id == focalID {
			continue
		}
		l, ok, err := store.GetListing(ctx, h.DB, id)
		if err != nil || !ok {
			continue
		}
		out = append(out, l)
	}
	return out
}

type listingsResponse struct {
	Listings []domain.Listing `json:"listings"`
	Total    int              `json:"total"`
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitListingPath turns "/listings/{id}[/rest]" into (id, rest).
func splitListingPath(path string) (id, rest string) {
	s := strings.TrimPrefix(path, "/listings/")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}
