package httpapi

import (
	"context"
	"log"
	"net/http"
	"sync/atomic"

	"kiralet-engine/internal/refresh"
)

type RefreshHandler struct {
	Status     *atomic.Value // refresh.Status
	RunRefresh func(ctx context.Context) error
}

func (h RefreshHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st := refresh.Status{}
	if v := h.Status.Load(); v != nil {
		st = v.(refresh.Status)
	}
	writeJSON(w, st)
}

func (h RefreshHandler) Run(w http.ResponseWriter, r *http.Request) {
	st := refresh.Status{}
	if v := h.Status.Load(); v != nil {
		st = v.(refresh.Status)
	}
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	// Detached: the refresh outlives the request; status and SSE carry
	// the outcome.
	go func() {
		if err := h.RunRefresh(context.Background()); err != nil {
			log.Printf("[refresh] manual run error: %v", err)
		}
	}()

	writeJSON(w, map[string]any{"ok": true})
}
