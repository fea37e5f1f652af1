// Package book derives a displayable two-sided order book from the sparse
// price fields a mirrored market carries, and flags single-venue arbitrage.
package book

import "github.com/lakuzo/marketwatch/internal/domain"

const (
	// spread is the synthetic distance between a buy and its sell quote
	// when the venue only gave us one side.
	spread = 0.01
	// arbEpsilon is the margin a basket must clear past 1.00, in either
	// direction, before it is worth surfacing.
	arbEpsilon = 0.01
	// maxScreenCost is the product's cost ceiling for buy-both baskets. A
	// basket at or above it is noise after fees.
	maxScreenCost = 1 - arbEpsilon
)

// OrderBook is the normalized four-quote view of one binary market.
type OrderBook struct {
	BuyYes  float64 `json:"buy_yes"`
	SellYes float64 `json:"sell_yes"`
	BuyNo   float64 `json:"buy_no"`
	SellNo  float64 `json:"sell_no"`
}

// Opportunity describes a detected single-market arbitrage.
type Opportunity struct {
	Kind   string  `json:"kind"` // "buy_both" or "mint_both"
	Cost   float64 `json:"cost"`
	Profit float64 `json:"profit"`
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Normalize builds the four-quote book for a market. Preference order for
// the yes side is best ask, then last known price, then zero. The no side
// falls back to the complement of the yes buy. Sell quotes sit one tick
// under their buy, floored at zero.
func Normalize(m domain.Market) OrderBook {
	var buyYes float64
	switch {
	case m.BestAskYes != nil:
		buyYes = *m.BestAskYes
	case m.CurrentYesPrice != nil:
		buyYes = *m.CurrentYesPrice
	}
	buyYes = clamp01(buyYes)

	buyNo := 1 - buyYes
	if m.BestAskNo != nil {
		buyNo = *m.BestAskNo
	}
	buyNo = clamp01(buyNo)

	return OrderBook{
		BuyYes:  buyYes,
		SellYes: max(0, buyYes-spread),
		BuyNo:   buyNo,
		SellNo:  max(0, buyNo-spread),
	}
}

// BuyArb reports a buy-both opportunity: acquiring YES and NO together for
// meaningfully under a dollar locks in the difference at settlement.
func BuyArb(b OrderBook) (Opportunity, bool) {
	cost := b.BuyYes + b.BuyNo
	if cost >= maxScreenCost {
		return Opportunity{}, false
	}
	return Opportunity{Kind: "buy_both", Cost: cost, Profit: 1 - cost}, true
}

// MintArb reports a mint-and-sell opportunity: when the two buy quotes sum
// meaningfully over a dollar, a full set minted at par sells at a premium.
func MintArb(b OrderBook) (Opportunity, bool) {
	cost := b.BuyYes + b.BuyNo
	if cost <= 1+arbEpsilon {
		return Opportunity{}, false
	}
	return Opportunity{Kind: "mint_both", Cost: cost, Profit: cost - 1}, true
}

// Screen returns the arbitrage opportunities across a market set, buy-both
// or mint-both, paired with their source market.
func Screen(markets []domain.Market) []ScreenHit {
	var hits []ScreenHit
	for _, m := range markets {
		if !m.Active {
			continue
		}
		b := Normalize(m)
		opp, ok := BuyArb(b)
		if !ok {
			opp, ok = MintArb(b)
		}
		if !ok {
			continue
		}
		hits = append(hits, ScreenHit{Market: m, Book: b, Opportunity: opp})
	}
	return hits
}

// ScreenHit is one screener result.
type ScreenHit struct {
	Market      domain.Market `json:"market"`
	Book        OrderBook     `json:"book"`
	Opportunity Opportunity   `json:"opportunity"`
}
