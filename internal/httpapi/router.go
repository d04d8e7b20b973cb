package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs
// srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Listings
	lh := ListingsHandler{DB: d.DB, Hub: d.Hub, History: d.History, CfgVal: d.CfgVal, RentedIDs: d.RentedIDs}
	mux.HandleFunc("/listings", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.List,
	}))
	mux.HandleFunc("/listings/popular", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.Popular,
	}))
	mux.HandleFunc("/listings/", lh.GetByPath) // /listings/{id}[/related|/viewed]

	// Recently viewed
	hh := HistoryHandler{History: d.History, Hub: d.Hub}
	mux.HandleFunc("/history", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    hh.Get,
		http.MethodDelete: hh.Clear,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		Hub:         d.Hub,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/backend", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetBackendKey,
	}))

	// Snapshot refresh
	rh := RefreshHandler{Status: d.RefreshStatus, RunRefresh: d.RunRefresh}
	mux.HandleFunc("/refresh/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.GetStatus,
	}))
	mux.HandleFunc("/refresh/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Run,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Maintenance
	dh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Checkpoint,
	}))

	// Health
	hh2 := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh2.Health,
	}))

	return mux
}
