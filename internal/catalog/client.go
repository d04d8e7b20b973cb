// Package catalog talks to the hosted backend's listings table over its
// REST interface and sanitizes rows into domain.Listing values.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"kiralet-engine/internal/domain"
	"kiralet-engine/internal/ratelimit"
)

type Client struct {
	BaseURL string
	APIKey  string
	HC      *http.Client
	Limiter *ratelimit.HostLimiter
}

func New(baseURL, apiKey string, limiter *ratelimit.HostLimiter) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HC:      &http.Client{Timeout: 20 * time.Second},
		Limiter: limiter,
	}
}

// FetchAll returns the full catalog snapshot, newest-first as the backend
// serves it. Rows are sanitized at this boundary; the ranking core never
// sees a malformed listing.
func (c *Client) FetchAll(ctx context.Context) ([]domain.Listing, error) {
	var records []domain.ListingRecord
	if err := c.getJSON(ctx, "/listings?order=created_at.desc", &records); err != nil {
		return nil, err
	}

	out := make([]domain.Listing, 0, len(records))
	for _, r := range records {
		l := domain.ListingFromRecord(r)
		if l.ID == "" {
			continue
		}
		// Descriptions come from the web editor and may carry markup.
		l.Description = StripHTML(l.Description)
		out = append(out, l)
	}
	return out, nil
}

// FetchByID fetches a single listing.
func (c *Client) FetchByID(ctx context.Context, id string) (domain.Listing, bool, error) {
	var records []domain.ListingRecord
	path := "/listings?id=eq." + url.QueryEscape(id)
	if err := c.getJSON(ctx, path, &records); err != nil {
		return domain.Listing{}, false, err
	}
	if len(records) == 0 {
		return domain.Listing{}, false, nil
	}
	l := domain.ListingFromRecord(records[0])
	l.Description = StripHTML(l.Description)
	return l, true, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	u := c.BaseURL + path

	if c.Limiter != nil {
		if err := c.Limiter.WaitURL(ctx, u); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("apikey", c.APIKey)
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	res, err := c.HC.Do(req)
	if err != nil {
		return fmt.Errorf("catalog get %s: %w", path, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return fmt.Errorf("catalog get %s: status %d", path, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("catalog decode %s: %w", path, err)
	}
	return nil
}
