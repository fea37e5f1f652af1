package domain

import (
	"context"
	"time"
)

// MarketFilter narrows and orders market list queries. The zero value lists
// everything, newest volume first.
type MarketFilter struct {
	Search    string // case-insensitive substring match on title
	Platform  Platform
	Active    *bool // nil = both active and resolved
	EndAfter  *time.Time
	EndBefore *time.Time
	Sort      MarketSort
	Limit     int
	Offset    int
}

// MarketSort selects the ordering of a market list query.
type MarketSort string

const (
	SortVolumeDesc  MarketSort = "volume_desc"
	SortEndDateAsc  MarketSort = "end_date_asc"
	SortNewestFirst MarketSort = "newest"
)

// RepairTarget bundles everything the batch verifier needs for one market:
// the routing fields to pick a venue adapter plus the reconciler's view of
// the stored record.
type RepairTarget struct {
	ID         string
	Platform   Platform
	ExternalID string
	View       StatusView
}

// MarketStore persists mirrored market records. The repair pipeline's only
// write is MarkResolved; everything else the core does with markets is a
// read. Upserts come from the external ingestion job through the same
// interface.
type MarketStore interface {
	Upsert(ctx context.Context, m Market) error
	GetByID(ctx context.Context, id string) (Market, error)
	GetStatusView(ctx context.Context, id string) (StatusView, error)
	ListByIDs(ctx context.Context, ids []string) ([]Market, error)
	List(ctx context.Context, f MarketFilter) ([]Market, error)
	Count(ctx context.Context, f MarketFilter) (int64, error)
	ListRepairTargets(ctx context.Context, ids []string) ([]RepairTarget, error)

	// MarkResolved flips the record to its terminal state: active=false,
	// status='resolved', updated_at=now. winner is written to
	// winning_outcome only when non-empty, so a known winner is never
	// clobbered by an administrative closure. The update is idempotent.
	MarkResolved(ctx context.Context, id, winner string) error
}

// PairStore reads the precomputed cross-venue pair join. The view is
// produced by the external matching job and is read-only here.
type PairStore interface {
	ListPairs(ctx context.Context) ([]MarketPair, error)
}

// VoteStore persists sentiment votes.
type VoteStore interface {
	Insert(ctx context.Context, v Vote) error
	HasVoted(ctx context.Context, marketID, wallet string) (bool, error)
	ListByMarket(ctx context.Context, marketID string) ([]Vote, error)
}

// UserStore persists wallet profiles and serves the ranked leaderboard.
type UserStore interface {
	// EnsureWallet inserts the wallet with DefaultReputation if it does
	// not exist yet. Existing rows are left untouched.
	EnsureWallet(ctx context.Context, wallet string) error
	Get(ctx context.Context, wallet string) (User, error)
	// Leaderboard reads the user_leaderboard view, highest reputation
	// first. The ranking itself is computed in SQL.
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// WatchlistStore persists market bundles.
type WatchlistStore interface {
	Create(ctx context.Context, w Watchlist) error
	GetByID(ctx context.Context, id string) (Watchlist, error)
	FindByName(ctx context.Context, wallet, name string) (Watchlist, error)
	ListByWallet(ctx context.Context, wallet string) ([]Watchlist, error)
	Delete(ctx context.Context, id string) error
	AddItem(ctx context.Context, watchlistID, marketID string) error
	RemoveItem(ctx context.Context, watchlistID, marketID string) error
}
