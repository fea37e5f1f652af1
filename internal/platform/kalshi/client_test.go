package kalshi

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

func TestMarketStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.VenueStatus
	}{
		{
			name: "finalized yes",
			body: `{"market":{"ticker":"KXFED-25","status":"finalized","result":"yes"}}`,
			want: domain.VenueStatus{Resolved: true, Winner: domain.WinnerYes},
		},
		{
			name: "settled no",
			body: `{"market":{"ticker":"KXFED-25","status":"settled","result":"no"}}`,
			want: domain.VenueStatus{Resolved: true, Winner: domain.WinnerNo},
		},
		{
			name: "settled without result settles no",
			body: `{"market":{"ticker":"KXFED-25","status":"settled","result":""}}`,
			want: domain.VenueStatus{Resolved: true, Winner: domain.WinnerNo},
		},
		{
			name: "finalized with unrecognized result settles no",
			body: `{"market":{"ticker":"KXFED-25","status":"finalized","result":"void"}}`,
			want: domain.VenueStatus{Resolved: true, Winner: domain.WinnerNo},
		},
		{
			name: "closed awaits settlement",
			body: `{"market":{"ticker":"KXFED-25","status":"closed","last_price":97}}`,
			want: domain.VenueStatus{Resolved: true, Winner: domain.WinnerPending},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, http.StatusOK, tt.body)
			vs, err := c.MarketStatus(context.Background(), "KXFED-25")
			require.NoError(t, err)
			assert.Equal(t, tt.want, vs)
		})
	}
}

func TestMarketStatusLivePriceFromCents(t *testing.T) {
	// The last trade outranks the resting yes ask.
	c := newTestServer(t, http.StatusOK,
		`{"market":{"ticker":"KXFED-25","status":"active","yes_ask":62,"last_price":60}}`)

	vs, err := c.MarketStatus(context.Background(), "KXFED-25")
	require.NoError(t, err)
	assert.False(t, vs.Resolved)
	require.NotNil(t, vs.LivePrice)
	assert.InDelta(t, 0.60, *vs.LivePrice, 1e-9)
}

func TestMarketStatusFallsBackToYesAsk(t *testing.T) {
	c := newTestServer(t, http.StatusOK,
		`{"market":{"ticker":"KXFED-25","status":"active","yes_ask":41,"last_price":0}}`)

	vs, err := c.MarketStatus(context.Background(), "KXFED-25")
	require.NoError(t, err)
	require.NotNil(t, vs.LivePrice)
	assert.InDelta(t, 0.41, *vs.LivePrice, 1e-9)
}

func TestMarketStatusNoPriceAtAll(t *testing.T) {
	c := newTestServer(t, http.StatusOK,
		`{"market":{"ticker":"KXFED-25","status":"active"}}`)

	vs, err := c.MarketStatus(context.Background(), "KXFED-25")
	require.NoError(t, err)
	assert.Nil(t, vs.LivePrice)
	assert.False(t, vs.Resolved)
}

func TestMarketStatusNotFound(t *testing.T) {
	c := newTestServer(t, http.StatusNotFound, `{"error":{"code":"market_not_found"}}`)

	_, err := c.MarketStatus(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
