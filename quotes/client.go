// Package quotes fetches stock price snapshots from a quote HTTP API.
// Requests are best effort: a failure fails the triggering command and is
// never retried here.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"popcat/models"
)

// Client talks to the quote API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a quote client. Pass nil for a default HTTP client; the
// caller is expected to supply one with a bounded timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type quoteResponse struct {
	Symbol  string  `json:"symbol"`
	Current float64 `json:"c"`
	Open    float64 `json:"o"`
	High    float64 `json:"h"`
	Low     float64 `json:"l"`
}

// Get fetches the current quote for a ticker symbol.
func (c *Client) Get(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", models.ErrValidation)
	}

	endpoint := fmt.Sprintf("%s/quote?symbol=%s", c.baseURL, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: quote fetch for %s: %v", models.ErrUpstreamUnavailable, symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: unknown symbol %s", models.ErrNotFound, symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: quote fetch for %s: status %d", models.ErrUpstreamUnavailable, symbol, resp.StatusCode)
	}

	var raw quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: quote decode for %s: %v", models.ErrUpstreamUnavailable, symbol, err)
	}

	if raw.Current <= 0 {
		// The API answers 200 with zeroed fields for symbols it does not track.
		return nil, fmt.Errorf("%w: no price data for %s", models.ErrNotFound, symbol)
	}

	return &models.Quote{
		Symbol:  symbol,
		Current: raw.Current,
		Open:    raw.Open,
		High:    raw.High,
		Low:     raw.Low,
	}, nil
}
