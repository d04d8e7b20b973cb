package rank

import (
	"sort"

	"kiralet-engine/internal/domain"
)

// SortByPopularity orders a copy of the catalog by view count descending.
// Ties break on CreatedAt descending; the timestamps are ISO-8601 strings,
// so lexicographic comparison is chronological and newer listings surface
// first among equal view counts.
func SortByPopularity(catalog []domain.Listing) []domain.Listing {
	out := append([]domain.Listing(nil), catalog...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ViewCount != out[j].ViewCount {
			return out[i].ViewCount > out[j].ViewCount
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}
