package rank

import (
	"math"
	"sort"

	"kiralet-engine/internal/domain"
)

// maxRecommendations caps the related-items strip on the detail view.
const maxRecommendations = 4

// Weights: similarity to the listing being viewed is a stronger signal than
// similarity to browsing history, and price proximity is a smooth tie-break
// that never outweighs a tag match.
const (
	viewedTagWeight  = 2
	currentTagWeight = 3
	priceScoreMax    = 3.0
)

// Recommend ranks the catalog for the "related items" strip on a listing's
// detail view. Excluded outright: the focal listing, anything in the
// recently-viewed history, anything the viewer has a non-rejected rental
// against, and the viewer's own listings. At most 4 results.
func Recommend(catalog []domain.Listing, focal domain.Listing, recentlyViewed []domain.Listing, rentedIDs map[string]bool, viewerID string) []domain.Listing {
	excluded := make(map[string]bool, 1+len(recentlyViewed)+len(rentedIDs))
	excluded[focal.ID] = true
	for _, l := range recentlyViewed {
		excluded[l.ID] = true
	}
	for id := range rentedIDs {
		excluded[id] = true
	}

	viewedTags := make(map[string]bool)
	for _, l := range recentlyViewed {
		for _, t := range l.Tags {
			viewedTags[t] = true
		}
	}
	currentTags := make(map[string]bool, len(focal.Tags))
	for _, t := range focal.Tags {
		currentTags[t] = true
		viewedTags[t] = true
	}

	type scored struct {
		listing domain.Listing
		score   float64
	}
	hits := make([]scored, 0, len(catalog))
	for _, l := range catalog {
		if excluded[l.ID] {
			continue
		}
		if viewerID != "" && l.OwnerID == viewerID {
			continue
		}
		hits = append(hits, scored{listing: l, score: relatedScore(l, focal, viewedTags, currentTags)})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	n := len(hits)
	if n > maxRecommendations {
		n = maxRecommendations
	}
	out := make([]domain.Listing, 0, n)
	for _, h := range hits[:n] {
		out = append(out, h.listing)
	}
	return out
}

func relatedScore(l, focal domain.Listing, viewedTags, currentTags map[string]bool) float64 {
	viewedOverlap := 0
	currentOverlap := 0
	for _, t := range l.Tags {
		if viewedTags[t] {
			viewedOverlap++
		}
		if currentTags[t] {
			currentOverlap++
		}
	}
	return float64(viewedOverlap)*viewedTagWeight +
		float64(currentOverlap)*currentTagWeight +
		priceScore(l.DailyPrice, focal.DailyPrice)
}

// priceScore decays linearly from 3 to 0 as the price deviates from the
// focal price, hitting 0 at 100% deviation. The max(focal, 1) guard keeps a
// zero-price focal listing from dividing by zero.
func priceScore(price, focalPrice float64) float64 {
	ratio := math.Abs(price-focalPrice) / math.Max(focalPrice, 1)
	s := priceScoreMax - ratio*priceScoreMax
	if s < 0 {
		return 0
	}
	return s
}
