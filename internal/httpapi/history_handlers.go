package httpapi

import (
	"net/http"

	"kiralet-engine/internal/events"
	"kiralet-engine/internal/history"
)

type HistoryHandler struct {
	History *history.Store
	Hub     *events.Hub
}

func (h HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	ids, err := h.History.List()
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "history_read", err.Error())
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, map[string]any{"ids": ids})
}

func (h HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.History.Clear(); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "history_clear", err.Error())
		return
	}
	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeHistoryCleared, 1, nil))
	writeJSON(w, map[string]any{"ok": true})
}
