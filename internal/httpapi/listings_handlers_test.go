package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiralet-engine/internal/config"
	"kiralet-engine/internal/domain"
	"kiralet-engine/internal/events"
	"kiralet-engine/internal/history"
	"kiralet-engine/internal/store"
)

type testEnv struct {
	mux  *http.ServeMux
	db   *store.DB
	hist *history.Store
}

func newTestEnv(t *testing.T, rented map[string]bool) testEnv {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	require.NoError(t, store.ReplaceSnapshot(context.Background(), db.Pool, []domain.Listing{
		{ID: "a", Title: "Bebek Arabası", Tags: []string{"bebek"}, DailyPrice: 120, OwnerID: "u1", ViewCount: 5, CreatedAt: "2026-03-01T00:00:00Z"},
		{ID: "b", Title: "Oto Koltuğu", Tags: []string{"bebek", "oto"}, DailyPrice: 90, OwnerID: "u2", ViewCount: 5, CreatedAt: "2026-02-01T00:00:00Z"},
		{ID: "c", Title: "Mama Sandalyesi", Tags: []string{"mama"}, DailyPrice: 45, OwnerID: "u3", ViewCount: 1, CreatedAt: "2026-01-01T00:00:00Z"},
	}))

	hist := history.NewStore(t.TempDir())

	var cfgVal atomic.Value
	cfgVal.Store(config.Default())
	var refreshStatus atomic.Value

	deps := Deps{
		DB:            db.Pool,
		Hub:           events.NewHub(),
		History:       hist,
		CfgVal:        &cfgVal,
		RefreshStatus: &refreshStatus,
		RentedIDs: func(ctx context.Context, viewerID string) (map[string]bool, error) {
			return rented, nil
		},
		RunRefresh: func(ctx context.Context) error { return nil },
	}
	return testEnv{mux: NewMux(deps), db: db, hist: hist}
}

func (e testEnv) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decodeListings(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp struct {
		Listings []domain.Listing `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	out := make([]string, 0, len(resp.Listings))
	for _, l := range resp.Listings {
		out = append(out, l.ID)
	}
	return out
}

func TestListingsList(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/listings")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"a", "b", "c"}, decodeListings(t, rec))
}

func TestListingsListWithQueryAndTags(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/listings?tags=bebek")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"a", "b"}, decodeListings(t, rec))

	rec = env.do(t, http.MethodGet, "/listings?q=oto+koltugu")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeListings(t, rec)
	require.NotEmpty(t, got)
	assert.Equal(t, "b", got[0])
}

func TestListingsGetByID(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/listings/a")
	require.Equal(t, http.StatusOK, rec.Code)

	var l domain.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &l))
	assert.Equal(t, "Bebek Arabası", l.Title)

	rec = env.do(t, http.MethodGet, "/listings/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListingsRelatedExcludesRentedAndOwn(t *testing.T) {
	env := newTestEnv(t, map[string]bool{"c": true})

	// Viewer u2 owns listing b; c is rented; focal is a.
	rec := env.do(t, http.MethodGet, "/listings/a/related?viewer=u2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeListings(t, rec))

	// Anonymous viewer with no rentals sees b and c.
	env2 := newTestEnv(t, nil)
	rec = env2.do(t, http.MethodGet, "/listings/a/related")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeListings(t, rec)
	assert.Len(t, got, 2)
	assert.Equal(t, "b", got[0]) // shares "bebek" with the focal listing
}

func TestListingsViewedUpdatesHistoryAndCounts(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/listings/a/viewed")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"local_views":1`) ||
		strings.Contains(rec.Body.String(), `"local_views": 1`))

	ids, err := env.hist.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)

	rec = env.do(t, http.MethodPost, "/listings/nope/viewed")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListingsPopularMergesLocalViews(t *testing.T) {
	env := newTestEnv(t, nil)

	// a and b tie at 5 backend views; a is newer so it leads.
	rec := env.do(t, http.MethodGet, "/listings/popular")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"a", "b", "c"}, decodeListings(t, rec))

	// Two local views push b past the tie.
	env.do(t, http.MethodPost, "/listings/b/viewed")
	env.do(t, http.MethodPost, "/listings/b/viewed")

	rec = env.do(t, http.MethodGet, "/listings/popular")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"b", "a", "c"}, decodeListings(t, rec))
}

func TestHistoryEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)

	env.do(t, http.MethodPost, "/listings/a/viewed")
	env.do(t, http.MethodPost, "/listings/b/viewed")

	rec := env.do(t, http.MethodGet, "/history")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		IDs []string `json:"ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"b", "a"}, resp.IDs)

	rec = env.do(t, http.MethodDelete, "/history")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/history")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.IDs)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodDelete, "/listings")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
