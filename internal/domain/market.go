package domain

import (
	"strings"
	"time"
)

// Platform identifies which upstream venue a mirrored market belongs to.
type Platform string

const (
	PlatformPolymarket Platform = "Polymarket"
	PlatformKalshi     Platform = "Kalshi"
)

// ParsePlatform normalizes a user-supplied platform string. It returns an
// empty Platform when the value matches neither venue.
func ParsePlatform(s string) Platform {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "polymarket":
		return PlatformPolymarket
	case "kalshi":
		return PlatformKalshi
	default:
		return ""
	}
}

// MarketStatus is the finer-grained lifecycle tag on a mirrored market.
// The coarse liveness signal is Market.Active; Status refines it once a
// market leaves the active state.
type MarketStatus string

const (
	MarketStatusClosed   MarketStatus = "closed"
	MarketStatusResolved MarketStatus = "resolved"
)

// Winner labels written to Market.WinningOutcome. Venue-specific result
// strings are normalized to this set by the adapters.
const (
	WinnerYes     = "Yes"
	WinnerNo      = "No"
	WinnerPending = "Pending"
)

// PricePoint is one sample in a market's price history. History is appended
// by the external scraper job; this service only reads it back.
type PricePoint struct {
	Timestamp time.Time `json:"t"`
	Price     float64   `json:"p"`
}

// Market is one mirrored venue-native market.
type Market struct {
	ID              string
	Platform        Platform
	Title           string
	ExternalID      string // venue-native id used to re-query the venue
	ConditionID     string // Polymarket condition id, fallback external id
	GroupID         string // series/event grouping, used for deep links
	SourceURL       string
	Active          bool
	Status          MarketStatus // empty until the market leaves active
	WinningOutcome  string       // empty until resolution is known
	CurrentYesPrice *float64     // probability-style price in [0,1]
	BestAskYes      *float64
	BestAskNo       *float64
	VolumeUSD       float64
	EndDate         *time.Time
	ImageURL        string
	PriceHistory    []PricePoint
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Terminal reports whether the record has reached its final state. Terminal
// records are never mutated by the repair pipeline again.
func (m Market) Terminal() bool {
	return !m.Active && m.Status == MarketStatusResolved
}

// StatusView is the minimal slice of a stored market the reconciler needs.
// Call sites that already hold a full Market build one directly; the repair
// route loads just these three columns.
type StatusView struct {
	Active         bool
	Status         MarketStatus
	WinningOutcome string
}

// Terminal reports whether the viewed record has reached its final state.
func (v StatusView) Terminal() bool {
	return !v.Active && v.Status == MarketStatusResolved
}

// View extracts the reconciler's view from a full market record.
func (m Market) View() StatusView {
	return StatusView{
		Active:         m.Active,
		Status:         m.Status,
		WinningOutcome: m.WinningOutcome,
	}
}

// RepairExternalID returns the id used to re-query the market's venue:
// the venue-native external id, falling back to the condition id.
func (m Market) RepairExternalID() string {
	if m.ExternalID != "" {
		return m.ExternalID
	}
	return m.ConditionID
}

// MarketURL builds the outbound trading link for a mirrored market.
//
// Kalshi series pages live under the part of the ticker before the first
// dash ("KXNCAAF-26" links as "KXNCAAF"); the group id is preferred over the
// market ticker because it is the series-level identifier. Polymarket links
// use the scraped source URL when present, else the event slug.
func (m Market) MarketURL() string {
	switch m.Platform {
	case PlatformKalshi:
		rawID := m.GroupID
		if rawID == "" {
			rawID = m.ExternalID
		}
		if rawID == "" {
			return "https://kalshi.com/markets"
		}
		if head, _, found := strings.Cut(rawID, "-"); found && len(head) > 2 {
			return "https://kalshi.com/markets/" + head
		}
		return "https://kalshi.com/markets/" + rawID
	case PlatformPolymarket:
		if m.SourceURL != "" {
			return m.SourceURL
		}
		slug := m.GroupID
		if slug == "" {
			slug = m.ExternalID
		}
		return "https://polymarket.com/event/" + slug
	default:
		return m.SourceURL
	}
}
