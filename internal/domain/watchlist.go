package domain

import "time"

// DefaultWatchlistName is the bundle created implicitly when a wallet stars
// its first market.
const DefaultWatchlistName = "My Watchlist"

// Watchlist is a named bundle of markets curated by one wallet. Bundles are
// shareable, so Name and Description double as curator-facing copy.
type Watchlist struct {
	ID          string
	UserWallet  string
	Name        string
	Description string
	MarketIDs   []string
	CreatedAt   time.Time
}
