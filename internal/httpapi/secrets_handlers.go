package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"kiralet-engine/internal/config"
	"kiralet-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setBackendKeyReq struct {
	Key string `json:"key"`
}

func (h SecretsHandler) SetBackendKey(w http.ResponseWriter, r *http.Request) {
	var req setBackendKeyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if err := secrets.SetBackendKey(secrets.BackendKeyringAccount(cfg), req.Key); err != nil {
		http.Error(w, "failed to store key: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
