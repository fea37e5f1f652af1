package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lakuzo/marketwatch/internal/domain"
)

// voteMarketStore is the slice of the market store voting needs.
type voteMarketStore interface {
	GetStatusView(ctx context.Context, id string) (domain.StatusView, error)
}

// VoteService handles sentiment voting and its aggregates. Votes are
// weighted by the voter's reputation at cast time.
type VoteService struct {
	votes   domain.VoteStore
	users   domain.UserStore
	markets voteMarketStore
	logger  *slog.Logger
}

// NewVoteService creates a VoteService with all required dependencies.
func NewVoteService(votes domain.VoteStore, users domain.UserStore, markets voteMarketStore, logger *slog.Logger) *VoteService {
	return &VoteService{votes: votes, users: users, markets: markets, logger: logger}
}

// CastVote records one wallet's call on a market. Voting on a resolved
// market returns domain.ErrMarketResolved; a second vote by the same wallet
// returns domain.ErrAlreadyExists. First-time wallets are created with the
// default reputation.
func (s *VoteService) CastVote(ctx context.Context, marketID, wallet string, choice domain.VoteChoice, txHash string) (domain.Vote, error) {
	if choice != domain.VoteYes && choice != domain.VoteNo {
		return domain.Vote{}, fmt.Errorf("vote_service: invalid choice %q", choice)
	}

	view, err := s.markets.GetStatusView(ctx, marketID)
	if err != nil {
		return domain.Vote{}, fmt.Errorf("vote_service: load market %q: %w", marketID, err)
	}
	if view.Terminal() {
		return domain.Vote{}, domain.ErrMarketResolved
	}

	if err := s.users.EnsureWallet(ctx, wallet); err != nil {
		return domain.Vote{}, fmt.Errorf("vote_service: ensure wallet: %w", err)
	}
	user, err := s.users.Get(ctx, wallet)
	if err != nil {
		return domain.Vote{}, fmt.Errorf("vote_service: load user: %w", err)
	}

	v := domain.Vote{
		ID:            uuid.NewString(),
		MarketID:      marketID,
		WalletAddress: wallet,
		Choice:        choice,
		WeightAtTime:  user.ReputationScore,
		TxHash:        txHash,
	}
	if err := s.votes.Insert(ctx, v); err != nil {
		return domain.Vote{}, fmt.Errorf("vote_service: insert vote: %w", err)
	}

	s.logger.InfoContext(ctx, "vote_service: vote cast",
		slog.String("market_id", marketID),
		slog.String("wallet", wallet),
		slog.String("choice", string(choice)),
		slog.Int("weight", v.WeightAtTime),
	)
	return v, nil
}

// GetSentiment aggregates the votes on a market.
func (s *VoteService) GetSentiment(ctx context.Context, marketID string) (domain.Sentiment, error) {
	votes, err := s.votes.ListByMarket(ctx, marketID)
	if err != nil {
		return domain.Sentiment{}, fmt.Errorf("vote_service: list votes: %w", err)
	}
	return domain.ComputeSentiment(votes), nil
}

// Leaderboard returns the top wallets by reputation.
func (s *VoteService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	entries, err := s.users.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("vote_service: leaderboard: %w", err)
	}
	return entries, nil
}
