package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlatform(t *testing.T) {
	assert.Equal(t, PlatformPolymarket, ParsePlatform("polymarket"))
	assert.Equal(t, PlatformPolymarket, ParsePlatform(" Polymarket "))
	assert.Equal(t, PlatformKalshi, ParsePlatform("KALSHI"))
	assert.Equal(t, Platform(""), ParsePlatform("predictit"))
	assert.Equal(t, Platform(""), ParsePlatform(""))
}

func TestTerminal(t *testing.T) {
	assert.True(t, Market{Active: false, Status: MarketStatusResolved}.Terminal())
	assert.False(t, Market{Active: true, Status: MarketStatusResolved}.Terminal())
	assert.False(t, Market{Active: false, Status: MarketStatusClosed}.Terminal())
	assert.False(t, Market{Active: true}.Terminal())
}

func TestRepairExternalID(t *testing.T) {
	assert.Equal(t, "512329", Market{ExternalID: "512329", ConditionID: "0xabc"}.RepairExternalID())
	assert.Equal(t, "0xabc", Market{ConditionID: "0xabc"}.RepairExternalID())
	assert.Empty(t, Market{}.RepairExternalID())
}

func TestMarketURLKalshi(t *testing.T) {
	tests := []struct {
		name string
		m    Market
		want string
	}{
		{
			name: "series from group id before first dash",
			m:    Market{Platform: PlatformKalshi, GroupID: "KXNCAAF-26"},
			want: "https://kalshi.com/markets/KXNCAAF",
		},
		{
			name: "ticker fallback when no group id",
			m:    Market{Platform: PlatformKalshi, ExternalID: "KXFED-25DEC-T3.00"},
			want: "https://kalshi.com/markets/KXFED",
		},
		{
			name: "short head keeps the whole ticker",
			m:    Market{Platform: PlatformKalshi, GroupID: "AB-26"},
			want: "https://kalshi.com/markets/AB-26",
		},
		{
			name: "no dash keeps the whole ticker",
			m:    Market{Platform: PlatformKalshi, GroupID: "INXD"},
			want: "https://kalshi.com/markets/INXD",
		},
		{
			name: "nothing known falls back to the market hub",
			m:    Market{Platform: PlatformKalshi},
			want: "https://kalshi.com/markets",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.MarketURL())
		})
	}
}

func TestMarketURLPolymarket(t *testing.T) {
	m := Market{Platform: PlatformPolymarket, SourceURL: "https://polymarket.com/event/fed-december"}
	assert.Equal(t, "https://polymarket.com/event/fed-december", m.MarketURL())

	m = Market{Platform: PlatformPolymarket, GroupID: "fed-december"}
	assert.Equal(t, "https://polymarket.com/event/fed-december", m.MarketURL())
}

func TestViewMatchesMarket(t *testing.T) {
	m := Market{Active: true, Status: MarketStatusClosed, WinningOutcome: ""}
	v := m.View()
	assert.Equal(t, m.Active, v.Active)
	assert.Equal(t, m.Status, v.Status)
	assert.False(t, v.Terminal())
}
