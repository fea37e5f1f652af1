package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lakuzo/marketwatch/internal/domain"
)

// UserStore implements domain.UserStore using PostgreSQL.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new UserStore backed by the given connection pool.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// EnsureWallet inserts the wallet with the default reputation if it is new.
func (s *UserStore) EnsureWallet(ctx context.Context, wallet string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (wallet_address, reputation_score, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (wallet_address) DO NOTHING`,
		wallet, domain.DefaultReputation,
	)
	if err != nil {
		return fmt.Errorf("postgres: ensure wallet %s: %w", wallet, err)
	}
	return nil
}

// Get retrieves a user profile by wallet, including its live vote count.
func (s *UserStore) Get(ctx context.Context, wallet string) (domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, `
		SELECT u.wallet_address, COALESCE(u.username, ''), u.reputation_score,
		       (SELECT COUNT(*) FROM votes v WHERE v.wallet_address = u.wallet_address),
		       u.created_at
		FROM users u WHERE u.wallet_address = $1`, wallet,
	).Scan(&u.WalletAddress, &u.Username, &u.ReputationScore, &u.TotalVotes, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("postgres: get user %s: %w", wallet, err)
	}
	return u, nil
}

// Leaderboard reads the user_leaderboard view. Ranking is computed in SQL
// so ties and pagination behave the same for every caller.
func (s *UserStore) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT rank, wallet_address, COALESCE(username, ''), reputation_score, total_votes
		FROM user_leaderboard
		ORDER BY rank ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.Rank, &e.WalletAddress, &e.Username,
			&e.ReputationScore, &e.TotalVotes); err != nil {
			return nil, fmt.Errorf("postgres: scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate leaderboard: %w", err)
	}
	return entries, nil
}
