package domain

import "time"

// DefaultReputation is the score assigned to a wallet on first sight.
const DefaultReputation = 100

// User is a wallet-first profile. Wallets are created implicitly the first
// time they vote; usernames are optional and claimed later.
type User struct {
	WalletAddress   string
	Username        string
	ReputationScore int
	TotalVotes      int
	CreatedAt       time.Time
}

// LeaderboardEntry is one row of the read-only user_leaderboard view.
type LeaderboardEntry struct {
	Rank            int
	WalletAddress   string
	Username        string
	ReputationScore int
	TotalVotes      int
}
