package rank

import (
	"sort"
	"strings"

	"kiralet-engine/internal/domain"
)

// Score weights for Search. Fixed by design; tuning them is a relevance
// change, not a configuration concern.
const (
	wholeQueryBonus   = 8
	tokenContains     = 3
	tokenPrefix       = 2
	tokenDistanceOne  = 2
	tokenDistanceTwo  = 1
	tokenExactOverlap = 2
)

// Search filters the catalog by required tags and, when the query is
// non-empty, scores and reorders the survivors by relevance. The input
// slice is never mutated; callers get a fresh slice in all paths.
//
// Tag filtering is AND semantics: a listing survives only if its normalized
// tag set contains every applied tag. An empty query returns the
// tag-filtered catalog in its original order.
func Search(catalog []domain.Listing, appliedTags []string, searchText string) []domain.Listing {
	filtered := filterByTags(catalog, appliedTags)

	query := Normalize(searchText)
	if query == "" {
		return filtered
	}
	qTokens := strings.Fields(query)

	type scored struct {
		listing domain.Listing
		score   int
	}
	hits := make([]scored, 0, len(filtered))
	for _, l := range filtered {
		if s := scoreListing(l, query, qTokens); s > 0 {
			hits = append(hits, scored{listing: l, score: s})
		}
	}

	// Stable: listings with equal scores keep their catalog order.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	out := make([]domain.Listing, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.listing)
	}
	return out
}

func filterByTags(catalog []domain.Listing, appliedTags []string) []domain.Listing {
	want := make([]string, 0, len(appliedTags))
	for _, t := range appliedTags {
		if n := Normalize(t); n != "" {
			want = append(want, n)
		}
	}

	out := make([]domain.Listing, 0, len(catalog))
	for _, l := range catalog {
		if hasAllTags(l, want) {
			out = append(out, l)
		}
	}
	return out
}

func hasAllTags(l domain.Listing, want []string) bool {
	if len(want) == 0 {
		return true
	}
	have := make(map[string]bool, len(l.Tags))
	for _, t := range l.Tags {
		have[Normalize(t)] = true
	}
	for _, w := range want {
		if !have[w] {
			return false
		}
	}
	return true
}

// scoreListing implements the relevance formula:
//   - +8 when the whole normalized query is a substring of the haystack
//   - per query token: +3 substring hit, +2 when some haystack token starts
//     with it, +2 when its best edit distance to a haystack token is 1,
//     else +1 when that distance is 2
//   - +2 per query token that exactly equals a haystack token, on top of
//     the per-token bonuses (a token can earn both)
func scoreListing(l domain.Listing, query string, qTokens []string) int {
	hay := haystack(l)
	hayTokens := tokenize(hay)

	score := 0
	if strings.Contains(hay, query) {
		score += wholeQueryBonus
	}

	for _, qt := range qTokens {
		if strings.Contains(hay, qt) {
			score += tokenContains
		}

		prefix := false
		exact := false
		bestDist := -1
		for _, ht := range hayTokens {
			if !prefix && strings.HasPrefix(ht, qt) {
				prefix = true
			}
			if !exact && ht == qt {
				exact = true
			}
			if d := EditDistance(qt, ht); bestDist < 0 || d < bestDist {
				bestDist = d
			}
		}
		if prefix {
			score += tokenPrefix
		}
		switch bestDist {
		case 1:
			score += tokenDistanceOne
		case 2:
			score += tokenDistanceTwo
		}
		if exact {
			score += tokenExactOverlap
		}
	}
	return score
}

// haystack is the normalized concatenation of everything searchable on a
// listing: title, description, tags, features.
func haystack(l domain.Listing) string {
	parts := make([]string, 0, 2+len(l.Tags)+len(l.Features))
	parts = append(parts, l.Title, l.Description)
	parts = append(parts, l.Tags...)
	parts = append(parts, l.Features...)
	return Normalize(strings.Join(parts, " "))
}
