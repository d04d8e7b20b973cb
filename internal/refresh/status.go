package refresh

// Status is what GET /refresh/status reports. Stored in an atomic.Value so
// handlers and the loop never contend.
type Status struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	Listings  int    `json:"listings"`
	Running   bool   `json:"running"`
}
