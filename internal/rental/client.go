// Package rental reads the viewer's rental rows from the hosted backend so
// recommendations can exclude listings the viewer already has a
// relationship with.
package rental

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

// FetchForRenter returns every rental the renter has created, newest-first.
func (c *Client) FetchForRenter(ctx context.Context, renterID string) ([]domain.Rental, error) {
	u := c.BaseURL + "/rentals?renter_id=eq." + url.QueryEscape(renterID) + "&order=created_at.desc"

	if c.Limiter != nil {
		if err := c.Limiter.WaitURL(ctx, u); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("apikey", c.APIKey)
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	res, err := c.HC.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rental get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("rental get: status %d", res.StatusCode)
	}

	var rentals []domain.Rental
	if err := json.NewDecoder(res.Body).Decode(&rentals); err != nil {
		return nil, fmt.Errorf("rental decode: %w", err)
	}

	out := rentals[:0]
	for _, r := range rentals {
		if r.ListingID == "" {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
