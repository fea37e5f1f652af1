package polymarket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakuzo/marketwatch/internal/domain"
)

func newTestServer(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestMarketStatusResolvedWithWinner(t *testing.T) {
	c := newTestServer(t, http.StatusOK, `{
		"id": "512329",
		"question": "Will it happen?",
		"closed": true,
		"outcomes": "[\"Yes\", \"No\"]",
		"outcomePrices": "[\"0.999\", \"0.001\"]"
	}`)

	vs, err := c.MarketStatus(context.Background(), "512329")
	require.NoError(t, err)
	assert.True(t, vs.Resolved)
	assert.Equal(t, "Yes", vs.Winner)
	assert.Nil(t, vs.LivePrice)
}

func TestMarketStatusClosedUndecided(t *testing.T) {
	// Closed with no outcome across the threshold: resolved, no winner.
	c := newTestServer(t, http.StatusOK, `{
		"id": "1",
		"closed": "true",
		"outcomes": "[\"Yes\", \"No\"]",
		"outcomePrices": "[\"0.60\", \"0.40\"]"
	}`)

	vs, err := c.MarketStatus(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, vs.Resolved)
	assert.Empty(t, vs.Winner)
	assert.False(t, vs.HasWinner())
}

func TestMarketStatusResolvedWithoutClosed(t *testing.T) {
	// Gamma can flag a market resolved before the closed flag flips.
	c := newTestServer(t, http.StatusOK, `{
		"id": "2",
		"closed": false,
		"resolved": true,
		"outcomes": "[\"Yes\", \"No\"]",
		"outcomePrices": "[\"0.001\", \"0.999\"]"
	}`)

	vs, err := c.MarketStatus(context.Background(), "2")
	require.NoError(t, err)
	assert.True(t, vs.Resolved)
	assert.Equal(t, "No", vs.Winner)
	assert.Nil(t, vs.LivePrice)
}

func TestMarketStatusOpenReportsLivePrice(t *testing.T) {
	c := newTestServer(t, http.StatusOK, `{
		"id": "1",
		"closed": false,
		"outcomes": "[\"Yes\", \"No\"]",
		"outcomePrices": "[\"0.615\", \"0.385\"]"
	}`)

	vs, err := c.MarketStatus(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, vs.Resolved)
	require.NotNil(t, vs.LivePrice)
	assert.InDelta(t, 0.615, *vs.LivePrice, 1e-9)
}

func TestMarketStatusNotFound(t *testing.T) {
	c := newTestServer(t, http.StatusNotFound, `{"error":"no such market"}`)

	_, err := c.MarketStatus(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOutcomePriceValuesBadPayload(t *testing.T) {
	m := APIMarket{OutcomePrices: `not json`}
	_, err := m.OutcomePriceValues()
	assert.Error(t, err)
}
