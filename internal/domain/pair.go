package domain

import "time"

// MatchType describes how the YES sides of a cross-venue pair relate.
type MatchType string

const (
	// MatchDirect: Polymarket YES corresponds to Kalshi YES.
	MatchDirect MatchType = "Direct"
	// MatchInverse: Polymarket YES corresponds to Kalshi NO.
	MatchInverse MatchType = "Inverse"
)

// MarketPair is one row of the precomputed detailed_market_pairs view: two
// markets, one per venue, believed to reference the same real-world event.
// The matching itself (and ConfidenceScore) is produced by an external job;
// this service only reads pairs and derives yields from them.
type MarketPair struct {
	PairID          string
	MatchType       MatchType
	ConfidenceScore float64 // [0,1], externally supplied

	PolyID      string
	PolyTitle   string
	PolyImage   string
	PolyActive  bool
	PolyYes     *float64
	PolyNo      *float64
	PolyEndDate *time.Time

	KalshiID      string
	KalshiTitle   string
	KalshiActive  bool
	KalshiYes     *float64
	KalshiNo      *float64
	KalshiEndDate *time.Time

	CreatedAt time.Time
}

// SoonestEnd returns the earlier of the two legs' end dates. A nil end date
// on a leg is ignored; the zero time is returned when both are missing.
func (p MarketPair) SoonestEnd() time.Time {
	switch {
	case p.PolyEndDate == nil && p.KalshiEndDate == nil:
		return time.Time{}
	case p.PolyEndDate == nil:
		return *p.KalshiEndDate
	case p.KalshiEndDate == nil:
		return *p.PolyEndDate
	case p.KalshiEndDate.Before(*p.PolyEndDate):
		return *p.KalshiEndDate
	default:
		return *p.PolyEndDate
	}
}
