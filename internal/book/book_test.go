package book

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lakuzo/marketwatch/internal/domain"
)

func fptr(f float64) *float64 { return &f }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		m    domain.Market
		want OrderBook
	}{
		{
			name: "both asks present",
			m:    domain.Market{BestAskYes: fptr(0.62), BestAskNo: fptr(0.40)},
			want: OrderBook{BuyYes: 0.62, SellYes: 0.61, BuyNo: 0.40, SellNo: 0.39},
		},
		{
			name: "yes ask falls back to last price",
			m:    domain.Market{CurrentYesPrice: fptr(0.30)},
			want: OrderBook{BuyYes: 0.30, SellYes: 0.29, BuyNo: 0.70, SellNo: 0.69},
		},
		{
			name: "nothing known",
			m:    domain.Market{},
			want: OrderBook{BuyYes: 0, SellYes: 0, BuyNo: 1, SellNo: 0.99},
		},
		{
			name: "out of range quotes are clamped",
			m:    domain.Market{BestAskYes: fptr(1.2), BestAskNo: fptr(-0.1)},
			want: OrderBook{BuyYes: 1, SellYes: 0.99, BuyNo: 0, SellNo: 0},
		},
		{
			name: "sell floors at zero",
			m:    domain.Market{BestAskYes: fptr(0.005), BestAskNo: fptr(0.995)},
			want: OrderBook{BuyYes: 0.005, SellYes: 0, BuyNo: 0.995, SellNo: 0.985},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.m)
			assert.InDelta(t, tt.want.BuyYes, got.BuyYes, 1e-9)
			assert.InDelta(t, tt.want.SellYes, got.SellYes, 1e-9)
			assert.InDelta(t, tt.want.BuyNo, got.BuyNo, 1e-9)
			assert.InDelta(t, tt.want.SellNo, got.SellNo, 1e-9)
		})
	}
}

func TestBuyArb(t *testing.T) {
	opp, ok := BuyArb(OrderBook{BuyYes: 0.45, BuyNo: 0.50})
	assert.True(t, ok)
	assert.InDelta(t, 0.95, opp.Cost, 1e-9)
	assert.InDelta(t, 0.05, opp.Profit, 1e-9)

	// A basket at 0.99 sits inside the epsilon band and is not an arb.
	_, ok = BuyArb(OrderBook{BuyYes: 0.49, BuyNo: 0.50})
	assert.False(t, ok)

	_, ok = BuyArb(OrderBook{BuyYes: 0.60, BuyNo: 0.45})
	assert.False(t, ok)
}

func TestMintArb(t *testing.T) {
	// Buy quotes summing over a dollar mean a minted set sells at a premium.
	opp, ok := MintArb(OrderBook{BuyYes: 0.58, BuyNo: 0.47})
	assert.True(t, ok)
	assert.InDelta(t, 1.05, opp.Cost, 1e-9)
	assert.InDelta(t, 0.05, opp.Profit, 1e-9)

	// 1.01 sits inside the epsilon band.
	_, ok = MintArb(OrderBook{BuyYes: 0.51, BuyNo: 0.50})
	assert.False(t, ok)

	_, ok = MintArb(OrderBook{BuyYes: 0.50, BuyNo: 0.50})
	assert.False(t, ok)
}

func TestScreen(t *testing.T) {
	markets := []domain.Market{
		{ID: "cheap", Active: true, BestAskYes: fptr(0.40), BestAskNo: fptr(0.50)},
		{ID: "tight", Active: true, BestAskYes: fptr(0.49), BestAskNo: fptr(0.50)},
		{ID: "rich", Active: true, BestAskYes: fptr(0.60), BestAskNo: fptr(0.45)},
		{ID: "dead", Active: false, BestAskYes: fptr(0.10), BestAskNo: fptr(0.10)},
	}

	hits := Screen(markets)
	if assert.Len(t, hits, 2) {
		assert.Equal(t, "cheap", hits[0].Market.ID)
		assert.Equal(t, "buy_both", hits[0].Opportunity.Kind)
		assert.InDelta(t, 0.90, hits[0].Opportunity.Cost, 1e-9)

		assert.Equal(t, "rich", hits[1].Market.ID)
		assert.Equal(t, "mint_both", hits[1].Opportunity.Kind)
		assert.InDelta(t, 0.05, hits[1].Opportunity.Profit, 1e-9)
	}
}
