// Package report talks to the external reporting service that is the
// authoritative source for budget progress. It may be disabled or
// unreachable; callers fall back to local computation in either case.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/planning"
)

const requestTimeout = 5 * time.Second

// Client is a thin HTTP client for the report service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a report client. An empty baseURL yields a
// disabled client; check Enabled before calling it.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Enabled reports whether a report service is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// GetBudgetProgress fetches the service-computed progress for a
// budget. Any failure (network, non-200, bad body) is returned as an
// error so the caller can fall back to local computation.
func (c *Client) GetBudgetProgress(ctx context.Context, budgetID uint) (*planning.BudgetProgress, error) {
	url := fmt.Sprintf("%s/budgets/%d/progress", c.baseURL, budgetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("report service returned status %d", resp.StatusCode)
	}

	var progress planning.BudgetProgress
	if err := json.NewDecoder(resp.Body).Decode(&progress); err != nil {
		return nil, fmt.Errorf("decoding report service response: %w", err)
	}
	return &progress, nil
}

// Health checks the service's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("report service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
