package pairs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lakuzo/marketwatch/internal/domain"
)

func fptr(f float64) *float64 { return &f }

func TestComputeYieldDirect(t *testing.T) {
	y := ComputeYield(domain.MarketPair{
		MatchType: domain.MatchDirect,
		PolyYes:   fptr(0.40),
		PolyNo:    fptr(0.55),
		KalshiYes: fptr(0.50),
		KalshiNo:  fptr(0.58),
	})

	// Poly YES + Kalshi NO.
	assert.True(t, y.Rows[0].Viable)
	assert.InDelta(t, 0.98, y.Rows[0].CostUSD, 1e-9)
	assert.InDelta(t, 2.0, y.Rows[0].YieldPct, 1e-9)

	// Poly NO + Kalshi YES costs over a dollar.
	assert.False(t, y.Rows[1].Viable)
	assert.InDelta(t, 1.05, y.Rows[1].CostUSD, 1e-9)
	assert.Zero(t, y.Rows[1].YieldPct)

	assert.InDelta(t, 2.0, y.BestYieldPct, 1e-9)
}

func TestComputeYieldInverse(t *testing.T) {
	y := ComputeYield(domain.MarketPair{
		MatchType: domain.MatchInverse,
		PolyYes:   fptr(0.30),
		PolyNo:    fptr(0.68),
		KalshiYes: fptr(0.65),
		KalshiNo:  fptr(0.30),
	})

	// Inverse hedges same-label legs: YES+YES then NO+NO.
	assert.InDelta(t, 5.0, y.Rows[0].YieldPct, 1e-9)
	assert.InDelta(t, 2.0, y.Rows[1].YieldPct, 1e-9)
	assert.InDelta(t, 5.0, y.BestYieldPct, 1e-9)
}

func TestComputeYieldMissingPriceDefaultsToZero(t *testing.T) {
	// A leg the venue never quoted prices at zero; the basket still
	// computes a cost and yield instead of dropping out of the screen.
	y := ComputeYield(domain.MarketPair{
		MatchType: domain.MatchDirect,
		PolyYes:   fptr(0.40),
		KalshiYes: fptr(0.50),
	})

	// Poly YES + Kalshi NO, with Kalshi NO unquoted.
	assert.True(t, y.Rows[0].Viable)
	assert.True(t, y.Rows[0].Legs[1].Unknown)
	assert.InDelta(t, 0.40, y.Rows[0].CostUSD, 1e-9)
	assert.InDelta(t, 60.0, y.Rows[0].YieldPct, 1e-9)

	// Poly NO + Kalshi YES, with Poly NO unquoted.
	assert.True(t, y.Rows[1].Viable)
	assert.True(t, y.Rows[1].Legs[0].Unknown)
	assert.InDelta(t, 0.50, y.Rows[1].CostUSD, 1e-9)
	assert.InDelta(t, 50.0, y.Rows[1].YieldPct, 1e-9)

	assert.InDelta(t, 60.0, y.BestYieldPct, 1e-9)
}

func activePair(id string, yield float64, conf float64, created time.Time, end *time.Time) domain.MarketPair {
	// Build a Direct pair whose row1 cost is 1-yield/100.
	cost := 1 - yield/100
	return domain.MarketPair{
		PairID:          id,
		MatchType:       domain.MatchDirect,
		ConfidenceScore: conf,
		PolyActive:      true,
		KalshiActive:    true,
		PolyYes:         fptr(cost / 2),
		PolyNo:          fptr(0.99),
		KalshiYes:       fptr(0.99),
		KalshiNo:        fptr(cost / 2),
		PolyEndDate:     end,
		CreatedAt:       created,
	}
}

func TestScreen(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	e1, e2 := t0.AddDate(0, 1, 0), t0.AddDate(0, 2, 0)

	pairs := []domain.MarketPair{
		activePair("low", 1, 0.9, t0, &e2),
		activePair("high", 5, 0.5, t0.Add(time.Hour), &e1),
		{PairID: "hidden", PolyActive: true, KalshiActive: false},
	}

	byYield := Screen(pairs, Filter{Sort: SortYield})
	if assert.Len(t, byYield, 2) {
		assert.Equal(t, "high", byYield[0].Pair.PairID)
		assert.Equal(t, "low", byYield[1].Pair.PairID)
	}

	byEnd := Screen(pairs, Filter{Sort: SortEndingSoon})
	assert.Equal(t, "high", byEnd[0].Pair.PairID)

	byConf := Screen(pairs, Filter{Sort: SortConfidence})
	assert.Equal(t, "low", byConf[0].Pair.PairID)

	byNew := Screen(pairs, Filter{Sort: SortNewest})
	assert.Equal(t, "high", byNew[0].Pair.PairID)
}

func TestScreenFilters(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	fed := activePair("fed", 3, 0.8, t0, nil)
	fed.PolyTitle = "Fed cuts rates in March?"
	fed.KalshiTitle = "FOMC decision"

	cup := activePair("cup", 2, 0.7, t0, nil)
	cup.MatchType = domain.MatchInverse
	cup.PolyTitle = "Will Brazil win the cup?"
	cup.KalshiTitle = "World Cup winner"

	pairs := []domain.MarketPair{fed, cup}

	// Title search matches either leg, case-insensitively.
	bySearch := Screen(pairs, Filter{Search: "fomc"})
	if assert.Len(t, bySearch, 1) {
		assert.Equal(t, "fed", bySearch[0].Pair.PairID)
	}

	byType := Screen(pairs, Filter{Type: domain.MatchInverse})
	if assert.Len(t, byType, 1) {
		assert.Equal(t, "cup", byType[0].Pair.PairID)
	}

	assert.Len(t, Screen(pairs, Filter{}), 2)
	assert.Empty(t, Screen(pairs, Filter{Search: "fomc", Type: domain.MatchInverse}))
}
