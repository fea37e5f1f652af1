// Package pairs derives hedged yields from precomputed cross-venue market
// pairs and prepares them for the screener.
package pairs

import (
	"sort"
	"strings"

	"github.com/lakuzo/marketwatch/internal/domain"
)

// Leg names one side of a hedged basket.
type Leg struct {
	Venue   string  `json:"venue"`
	Side    string  `json:"side"`
	AskUSD  float64 `json:"ask_usd"`
	Unknown bool    `json:"unknown,omitempty"` // price missing on the venue
}

// Basket is one of the two complementary two-leg combinations of a pair.
// Exactly one leg pays out a dollar at settlement, so any total cost under
// a dollar is locked-in profit. A leg without a venue quote prices at zero
// and is flagged Unknown for display.
type Basket struct {
	Legs     [2]Leg  `json:"legs"`
	CostUSD  float64 `json:"cost_usd"`
	YieldPct float64 `json:"yield_pct"` // 0 when the basket is not profitable
	Viable   bool    `json:"viable"`    // cost < 1
}

// Yield is the screener's view of one pair: both baskets plus the headline
// number used for ranking.
type Yield struct {
	Pair         domain.MarketPair `json:"pair"`
	Rows         [2]Basket         `json:"rows"`
	BestYieldPct float64           `json:"best_yield_pct"`
}

func basket(pVenue, pSide string, pAsk *float64, kVenue, kSide string, kAsk *float64) Basket {
	b := Basket{Legs: [2]Leg{
		{Venue: pVenue, Side: pSide},
		{Venue: kVenue, Side: kSide},
	}}
	if pAsk != nil {
		b.Legs[0].AskUSD = *pAsk
	} else {
		b.Legs[0].Unknown = true
	}
	if kAsk != nil {
		b.Legs[1].AskUSD = *kAsk
	} else {
		b.Legs[1].Unknown = true
	}
	b.CostUSD = b.Legs[0].AskUSD + b.Legs[1].AskUSD
	if b.CostUSD < 1 {
		b.Viable = true
		b.YieldPct = (1 - b.CostUSD) * 100
	}
	return b
}

// ComputeYield builds both hedged baskets for a pair. A Direct match hedges
// opposite labels across venues; an Inverse match, where the labels already
// point at opposite outcomes, hedges the same label on both.
func ComputeYield(p domain.MarketPair) Yield {
	var rows [2]Basket
	if p.MatchType == domain.MatchInverse {
		rows[0] = basket("polymarket", "YES", p.PolyYes, "kalshi", "YES", p.KalshiYes)
		rows[1] = basket("polymarket", "NO", p.PolyNo, "kalshi", "NO", p.KalshiNo)
	} else {
		rows[0] = basket("polymarket", "YES", p.PolyYes, "kalshi", "NO", p.KalshiNo)
		rows[1] = basket("polymarket", "NO", p.PolyNo, "kalshi", "YES", p.KalshiYes)
	}

	y := Yield{Pair: p, Rows: rows}
	for _, r := range rows {
		if r.Viable && r.YieldPct > y.BestYieldPct {
			y.BestYieldPct = r.YieldPct
		}
	}
	return y
}

// SortKey selects the screener's ordering.
type SortKey string

const (
	SortYield      SortKey = "yield"
	SortEndingSoon SortKey = "ending_soon"
	SortConfidence SortKey = "confidence"
	SortNewest     SortKey = "newest"
)

// Filter narrows and orders the screener's pair set.
type Filter struct {
	Search string           // case-insensitive substring over either leg's title
	Type   domain.MatchType // zero value keeps both match types
	Sort   SortKey
}

func (f Filter) matches(p domain.MarketPair) bool {
	if f.Type != "" && p.MatchType != f.Type {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.PolyTitle), q) &&
			!strings.Contains(strings.ToLower(p.KalshiTitle), q) {
			return false
		}
	}
	return true
}

// Screen drops pairs with an inactive leg, applies the filter, computes
// yields, and orders the rest. Sorting is stable so equal keys keep the
// store's row order.
func Screen(ps []domain.MarketPair, f Filter) []Yield {
	ys := make([]Yield, 0, len(ps))
	for _, p := range ps {
		if !p.PolyActive || !p.KalshiActive || !f.matches(p) {
			continue
		}
		ys = append(ys, ComputeYield(p))
	}

	switch f.Sort {
	case SortEndingSoon:
		sort.SliceStable(ys, func(i, j int) bool {
			a, b := ys[i].Pair.SoonestEnd(), ys[j].Pair.SoonestEnd()
			if a.IsZero() != b.IsZero() {
				return b.IsZero() // dated pairs ahead of undated ones
			}
			return a.Before(b)
		})
	case SortConfidence:
		sort.SliceStable(ys, func(i, j int) bool {
			return ys[i].Pair.ConfidenceScore > ys[j].Pair.ConfidenceScore
		})
	case SortNewest:
		sort.SliceStable(ys, func(i, j int) bool {
			return ys[i].Pair.CreatedAt.After(ys[j].Pair.CreatedAt)
		})
	default:
		sort.SliceStable(ys, func(i, j int) bool {
			return ys[i].BestYieldPct > ys[j].BestYieldPct
		})
	}
	return ys
}
