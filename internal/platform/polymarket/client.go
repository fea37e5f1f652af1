// Package polymarket is the REST client for the Polymarket Gamma API, used
// here as the venue of record for Polymarket-mirrored markets.
package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lakuzo/marketwatch/internal/domain"
)

// winnerThreshold is the outcome price at which the venue is considered to
// have decided that outcome. Gamma pins the winner at 1.00 after resolution
// but intermediate snapshots can sit a hair under.
const winnerThreshold = 0.99

// Client is the Gamma API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Gamma client. baseURL is the API root, e.g.
// "https://gamma-api.polymarket.com".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetMarket returns the raw Gamma record for one market ID.
func (c *Client) GetMarket(ctx context.Context, id string) (APIMarket, error) {
	path := fmt.Sprintf("/markets/%s", url.PathEscape(id))

	body, err := c.doGet(ctx, path)
	if err != nil {
		return APIMarket{}, fmt.Errorf("polymarket/gamma: get market %s: %w", id, err)
	}

	var m APIMarket
	if err := json.Unmarshal(body, &m); err != nil {
		return APIMarket{}, fmt.Errorf("polymarket/gamma: decode market: %w", err)
	}
	return m, nil
}

// MarketStatus fetches a market and condenses it into the reconciler's
// venue view. A market flagged closed or resolved counts as resolved; its
// winner is the outcome whose price has crossed winnerThreshold, or unset
// when no outcome has. An open market reports the first outcome's price as
// the live price.
func (c *Client) MarketStatus(ctx context.Context, externalID string) (domain.VenueStatus, error) {
	m, err := c.GetMarket(ctx, externalID)
	if err != nil {
		return domain.VenueStatus{}, err
	}

	prices, err := m.OutcomePriceValues()
	if err != nil {
		return domain.VenueStatus{}, fmt.Errorf("polymarket/gamma: decode outcome prices: %w", err)
	}

	if bool(m.Closed) || bool(m.Resolved) {
		vs := domain.VenueStatus{Resolved: true}
		names, err := m.OutcomeNames()
		if err != nil {
			return domain.VenueStatus{}, fmt.Errorf("polymarket/gamma: decode outcomes: %w", err)
		}
		for i, p := range prices {
			if p >= winnerThreshold && i < len(names) {
				vs.Winner = names[i]
				break
			}
		}
		return vs, nil
	}

	vs := domain.VenueStatus{}
	if len(prices) > 0 {
		vs.LivePrice = &prices[0]
	}
	return vs, nil
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
