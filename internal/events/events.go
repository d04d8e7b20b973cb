package events

import (
	"encoding/json"
	"time"
)

// Event types published on the hub.
const (
	TypePing              = "ping"
	TypeSnapshotRefreshed = "snapshot_refreshed"
	TypeListingViewed     = "listing_viewed"
	TypeHistoryCleared    = "history_cleared"
	TypeConfigUpdated     = "config_updated"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// MakeEvent builds the serialized envelope the SSE stream sends. Marshal
// failures are swallowed on purpose: events are best-effort UI nudges.
func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
