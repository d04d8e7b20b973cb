package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"kiralet-engine/internal/config"
	"kiralet-engine/internal/events"
	"kiralet-engine/internal/history"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	History *history.Store

	// Atomic stores
	CfgVal        *atomic.Value // stores config.Config
	RefreshStatus *atomic.Value // stores refresh.Status

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// RentedIDs resolves the viewer's non-rejected rental listing ids,
	// hitting the backend or the cache as main decides. Injected for
	// testability.
	RentedIDs func(ctx context.Context, viewerID string) (map[string]bool, error)

	// RunRefresh triggers one snapshot refresh pass.
	RunRefresh func(ctx context.Context) error
}
