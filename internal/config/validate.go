package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg plus everything a UI
// should surface before saving it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(out.Backend.BaseURL), "/")
	out.Backend.APIKeyAccount = strings.TrimSpace(out.Backend.APIKeyAccount)
	out.App.DataDir = strings.TrimSpace(out.App.DataDir)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Backend.BaseURL != "" {
		u, err := url.Parse(out.Backend.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			res.addErr("backend.base_url is not a valid URL: %q", out.Backend.BaseURL)
		}
	} else {
		res.addWarn("backend.base_url is empty; the engine will serve the cached snapshot only.")
	}
	if out.Backend.BaseURL != "" && out.Backend.APIKeyAccount == "" {
		res.addWarn("backend.api_key_account is empty; requests will be sent unauthenticated.")
	}

	if out.Polling.SnapshotSeconds <= 0 {
		res.addErr("polling.snapshot_seconds must be > 0")
	} else if out.Polling.SnapshotSeconds < 15 {
		res.addWarn("polling.snapshot_seconds is very low (%d) and may rate-limit you at the backend.", out.Polling.SnapshotSeconds)
	}
	if out.Polling.RentalsTTLSeconds < 0 {
		res.addErr("polling.rentals_ttl_seconds must be >= 0")
	}

	if out.Search.MaxResults <= 0 {
		res.addErr("search.max_results must be > 0")
	} else if out.Search.MaxResults > 5000 {
		res.addWarn("search.max_results is very high (%d); the UI is unlikely to render that many.", out.Search.MaxResults)
	}

	return out, res
}
