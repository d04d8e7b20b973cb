package domain

// Rental statuses as the backend stores them.
const (
	RentalPending   = "pending"
	RentalApproved  = "approved"
	RentalRejected  = "rejected"
	RentalCompleted = "completed"
)

type Rental struct {
	ID        string `json:"id"`
	ListingID string `json:"listing_id"`
	RenterID  string `json:"renter_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// ActiveListingIDs returns the listing ids the renter still has a live
// relationship with: any rental whose latest known status is not rejected
// (pending, approved, and completed all count). Rows are assumed
// newest-first; the first status seen for a listing wins.
func ActiveListingIDs(rentals []Rental) map[string]bool {
	latest := make(map[string]string, len(rentals))
	for _, r := range rentals {
		if r.ListingID == "" {
			continue
		}
		if _, seen := latest[r.ListingID]; !seen {
			latest[r.ListingID] = r.Status
		}
	}
	out := make(map[string]bool, len(latest))
	for id, st := range latest {
		if st != RentalRejected {
			out[id] = true
		}
	}
	return out
}
