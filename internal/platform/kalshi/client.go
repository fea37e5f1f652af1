// Package kalshi is the REST client for the public Kalshi trade API. Market
// detail lookups need no credentials, so the client stays unauthenticated.
package kalshi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lakuzo/marketwatch/internal/domain"
)

// Client is the Kalshi trade API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Kalshi client. baseURL is the API root including the
// version prefix, e.g. "https://api.elections.kalshi.com/trade-api/v2".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetMarket returns the raw Kalshi record for one ticker.
func (c *Client) GetMarket(ctx context.Context, ticker string) (APIMarket, error) {
	path := fmt.Sprintf("/markets/%s", url.PathEscape(ticker))

	body, err := c.doGet(ctx, path)
	if err != nil {
		return APIMarket{}, fmt.Errorf("kalshi: get market %s: %w", ticker, err)
	}

	var resp marketResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return APIMarket{}, fmt.Errorf("kalshi: decode market: %w", err)
	}
	return resp.Market, nil
}

// MarketStatus fetches a market and condenses it into the reconciler's
// venue view. Settled and finalized markets resolve with winner Yes on a
// "yes" result and No on anything else; a market that is merely closed
// resolves with the winner still pending. Open markets report the last
// trade, falling back to the yes ask, converted from cents to dollars.
func (c *Client) MarketStatus(ctx context.Context, ticker string) (domain.VenueStatus, error) {
	m, err := c.GetMarket(ctx, ticker)
	if err != nil {
		return domain.VenueStatus{}, err
	}

	switch m.Status {
	case "finalized", "settled":
		vs := domain.VenueStatus{Resolved: true, Winner: domain.WinnerNo}
		if m.Result == "yes" {
			vs.Winner = domain.WinnerYes
		}
		return vs, nil
	case "closed":
		return domain.VenueStatus{Resolved: true, Winner: domain.WinnerPending}, nil
	}

	cents := m.LastPrice
	if cents == 0 {
		cents = m.YesAsk
	}
	if cents == 0 {
		return domain.VenueStatus{}, nil
	}
	price := float64(cents) / 100
	return domain.VenueStatus{LivePrice: &price}, nil
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, body)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, body)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, body)
	}
}
