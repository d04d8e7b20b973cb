package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func i64Ptr(n int64) *int64     { return &n }

func TestListingFromRecordDefaults(t *testing.T) {
	// A row with everything optional missing sanitizes to zero values,
	// never nils.
	l := ListingFromRecord(ListingRecord{ID: " a ", Title: " Bebek Arabası "})

	assert.Equal(t, "a", l.ID)
	assert.Equal(t, "Bebek Arabası", l.Title)
	assert.Empty(t, l.Description)
	assert.NotNil(t, l.Tags)
	assert.Empty(t, l.Tags)
	assert.NotNil(t, l.Features)
	assert.Empty(t, l.Features)
	assert.Zero(t, l.DailyPrice)
	assert.Zero(t, l.ViewCount)
}

func TestListingFromRecordFullRow(t *testing.T) {
	l := ListingFromRecord(ListingRecord{
		ID:          "a",
		Title:       "Oto Koltuğu",
		Description: strPtr("  0-18 kg  "),
		Tags:        []string{" bebek ", "", "oto"},
		Features:    []string{"isofix"},
		DailyPrice:  f64Ptr(90),
		OwnerID:     "u1",
		ViewCount:   i64Ptr(7),
		CreatedAt:   "2026-01-01T00:00:00Z",
	})

	assert.Equal(t, "0-18 kg", l.Description)
	assert.Equal(t, []string{"bebek", "oto"}, l.Tags)
	assert.Equal(t, []string{"isofix"}, l.Features)
	assert.Equal(t, 90.0, l.DailyPrice)
	assert.EqualValues(t, 7, l.ViewCount)
}

func TestListingFromRecordNegativeViewCount(t *testing.T) {
	l := ListingFromRecord(ListingRecord{ID: "a", ViewCount: i64Ptr(-5)})
	assert.Zero(t, l.ViewCount)
}
