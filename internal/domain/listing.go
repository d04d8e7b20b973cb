package domain

import "strings"

// Listing is a read-only projection of one rentable item in the catalog.
// The ranking core reads, scores, and reorders listings; it never mutates
// them. CreatedAt stays in the backend's ISO-8601 string form so ordering
// by it is a plain string compare.
type Listing struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Features    []string `json:"features"`
	DailyPrice  float64  `json:"dailyPrice"`
	OwnerID     string   `json:"ownerId"`
	ViewCount   int64    `json:"viewCount"`
	CreatedAt   string   `json:"createdAt"`
}

// ListingRecord is the loosely-typed shape the backend REST tables return.
// Optional columns come back as nulls or are omitted entirely, so every
// field that can be absent is a pointer or a nil-able slice.
type ListingRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	Features    []string `json:"features"`
	DailyPrice  *float64 `json:"daily_price"`
	OwnerID     string   `json:"owner_id"`
	ViewCount   *int64   `json:"view_count"`
	CreatedAt   string   `json:"created_at"`
}

// ListingFromRecord sanitizes a backend row once, at the boundary, so the
// scoring core can assume well-formed data: missing collections become
// empty, missing numerics become zero, strings are trimmed.
func ListingFromRecord(r ListingRecord) Listing {
	l := Listing{
		ID:        strings.TrimSpace(r.ID),
		Title:     strings.TrimSpace(r.Title),
		OwnerID:   strings.TrimSpace(r.OwnerID),
		CreatedAt: strings.TrimSpace(r.CreatedAt),
	}
	if r.Description != nil {
		l.Description = strings.TrimSpace(*r.Description)
	}
	if r.DailyPrice != nil {
		l.DailyPrice = *r.DailyPrice
	}
	if r.ViewCount != nil && *r.ViewCount > 0 {
		l.ViewCount = *r.ViewCount
	}
	l.Tags = cleanList(r.Tags)
	l.Features = cleanList(r.Features)
	return l
}

func cleanList(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		out = append(out, x)
	}
	return out
}
