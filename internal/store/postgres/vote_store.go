package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lakuzo/marketwatch/internal/domain"
)

// VoteStore implements domain.VoteStore using PostgreSQL.
type VoteStore struct {
	pool *pgxpool.Pool
}

// NewVoteStore creates a new VoteStore backed by the given connection pool.
func NewVoteStore(pool *pgxpool.Pool) *VoteStore {
	return &VoteStore{pool: pool}
}

// Insert records one vote. The (market_id, wallet_address) unique index
// maps a second vote on the same market to domain.ErrAlreadyExists.
func (s *VoteStore) Insert(ctx context.Context, v domain.Vote) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO votes (id, market_id, wallet_address, choice, weight_at_time, tx_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		v.ID, v.MarketID, v.WalletAddress, string(v.Choice), v.WeightAtTime, v.TxHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("postgres: insert vote: %w", err)
	}
	return nil
}

// HasVoted reports whether the wallet already voted on the market.
func (s *VoteStore) HasVoted(ctx context.Context, marketID, wallet string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM votes WHERE market_id = $1 AND wallet_address = $2)`,
		marketID, wallet,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: check vote: %w", err)
	}
	return exists, nil
}

// ListByMarket returns every vote on the market, oldest first.
func (s *VoteStore) ListByMarket(ctx context.Context, marketID string) ([]domain.Vote, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, market_id, wallet_address, choice, weight_at_time, tx_hash, created_at
		FROM votes WHERE market_id = $1
		ORDER BY created_at ASC`, marketID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate votes: %w", err)
	}
	return votes, nil
}

func scanVote(row pgx.Row) (domain.Vote, error) {
	var v domain.Vote
	var choice string
	err := row.Scan(&v.ID, &v.MarketID, &v.WalletAddress, &choice,
		&v.WeightAtTime, &v.TxHash, &v.CreatedAt)
	if err != nil {
		return domain.Vote{}, err
	}
	v.Choice = domain.VoteChoice(choice)
	return v, nil
}
