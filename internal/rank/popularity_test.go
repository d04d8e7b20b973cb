package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kiralet-engine/internal/domain"
)

func TestSortByPopularityOrdersByViewCount(t *testing.T) {
	catalog := []domain.Listing{
		{ID: "low", ViewCount: 1, CreatedAt: "2026-03-01T00:00:00Z"},
		{ID: "high", ViewCount: 9, CreatedAt: "2026-01-01T00:00:00Z"},
		{ID: "mid", ViewCount: 4, CreatedAt: "2026-02-01T00:00:00Z"},
	}
	got := SortByPopularity(catalog)
	assert.Equal(t, []string{"high", "mid", "low"}, ids(got))
}

func TestSortByPopularityTieBreaksOnNewerCreatedAt(t *testing.T) {
	catalog := []domain.Listing{
		{ID: "older", ViewCount: 3, CreatedAt: "2026-01-10T08:00:00Z"},
		{ID: "newer", ViewCount: 3, CreatedAt: "2026-02-20T08:00:00Z"},
		{ID: "cold", ViewCount: 1, CreatedAt: "2026-03-01T08:00:00Z"},
	}
	got := SortByPopularity(catalog)
	assert.Equal(t, []string{"newer", "older", "cold"}, ids(got))
}

func TestSortByPopularityDoesNotMutateInput(t *testing.T) {
	catalog := []domain.Listing{
		{ID: "a", ViewCount: 1},
		{ID: "b", ViewCount: 2},
	}
	_ = SortByPopularity(catalog)
	assert.Equal(t, []string{"a", "b"}, ids(catalog))
}
