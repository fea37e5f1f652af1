package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakuzo/marketwatch/internal/domain"
)

type fakeVoteStore struct {
	votes []domain.Vote
}

func (f *fakeVoteStore) Insert(_ context.Context, v domain.Vote) error {
	for _, existing := range f.votes {
		if existing.MarketID == v.MarketID && existing.WalletAddress == v.WalletAddress {
			return domain.ErrAlreadyExists
		}
	}
	f.votes = append(f.votes, v)
	return nil
}

func (f *fakeVoteStore) HasVoted(_ context.Context, marketID, wallet string) (bool, error) {
	for _, v := range f.votes {
		if v.MarketID == marketID && v.WalletAddress == wallet {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeVoteStore) ListByMarket(_ context.Context, marketID string) ([]domain.Vote, error) {
	var out []domain.Vote
	for _, v := range f.votes {
		if v.MarketID == marketID {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeUserStore struct {
	users map[string]domain.User
}

func (f *fakeUserStore) EnsureWallet(_ context.Context, wallet string) error {
	if f.users == nil {
		f.users = map[string]domain.User{}
	}
	if _, ok := f.users[wallet]; !ok {
		f.users[wallet] = domain.User{WalletAddress: wallet, ReputationScore: domain.DefaultReputation}
	}
	return nil
}

func (f *fakeUserStore) Get(_ context.Context, wallet string) (domain.User, error) {
	u, ok := f.users[wallet]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) Leaderboard(context.Context, int) ([]domain.LeaderboardEntry, error) {
	return nil, nil
}

func newVoteFixture(views map[string]domain.StatusView) (*VoteService, *fakeVoteStore, *fakeUserStore) {
	votes := &fakeVoteStore{}
	users := &fakeUserStore{}
	markets := &fakeMarketStore{views: views}
	return NewVoteService(votes, users, markets, testLogger()), votes, users
}

func TestCastVoteFirstTimeWallet(t *testing.T) {
	svc, votes, users := newVoteFixture(map[string]domain.StatusView{"m1": openView()})

	v, err := svc.CastVote(context.Background(), "m1", "0xabc", domain.VoteYes, "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultReputation, v.WeightAtTime)
	assert.NotEmpty(t, v.ID)
	assert.Len(t, votes.votes, 1)
	assert.Contains(t, users.users, "0xabc")
}

func TestCastVoteUsesCurrentReputation(t *testing.T) {
	svc, _, users := newVoteFixture(map[string]domain.StatusView{"m1": openView()})
	users.users = map[string]domain.User{
		"0xwhale": {WalletAddress: "0xwhale", ReputationScore: 420},
	}

	v, err := svc.CastVote(context.Background(), "m1", "0xwhale", domain.VoteNo, "0xtx")
	require.NoError(t, err)
	assert.Equal(t, 420, v.WeightAtTime)
	assert.Equal(t, "0xtx", v.TxHash)
}

func TestCastVoteRejectsResolvedMarket(t *testing.T) {
	svc, votes, _ := newVoteFixture(map[string]domain.StatusView{
		"m1": {Active: false, Status: domain.MarketStatusResolved, WinningOutcome: "Yes"},
	})

	_, err := svc.CastVote(context.Background(), "m1", "0xabc", domain.VoteYes, "")
	assert.ErrorIs(t, err, domain.ErrMarketResolved)
	assert.Empty(t, votes.votes)
}

func TestCastVoteRejectsDuplicate(t *testing.T) {
	svc, _, _ := newVoteFixture(map[string]domain.StatusView{"m1": openView()})

	_, err := svc.CastVote(context.Background(), "m1", "0xabc", domain.VoteYes, "")
	require.NoError(t, err)

	_, err = svc.CastVote(context.Background(), "m1", "0xabc", domain.VoteNo, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestCastVoteRejectsBadChoice(t *testing.T) {
	svc, _, _ := newVoteFixture(map[string]domain.StatusView{"m1": openView()})

	_, err := svc.CastVote(context.Background(), "m1", "0xabc", domain.VoteChoice("MAYBE"), "")
	assert.Error(t, err)
}

func TestGetSentiment(t *testing.T) {
	svc, votes, _ := newVoteFixture(map[string]domain.StatusView{"m1": openView()})
	votes.votes = []domain.Vote{
		{MarketID: "m1", WalletAddress: "a", Choice: domain.VoteYes, WeightAtTime: 100},
		{MarketID: "m1", WalletAddress: "b", Choice: domain.VoteYes, WeightAtTime: 200},
		{MarketID: "m1", WalletAddress: "c", Choice: domain.VoteNo, WeightAtTime: 90},
	}

	sent, err := svc.GetSentiment(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, 150, sent.YesRepAvg)
	assert.Equal(t, 90, sent.NoRepAvg)
	assert.Equal(t, 67, sent.CrowdYesPct)
	assert.Equal(t, 3, sent.TotalVotes)
}

func TestGetSentimentEmptyMarket(t *testing.T) {
	svc, _, _ := newVoteFixture(map[string]domain.StatusView{"m1": openView()})

	sent, err := svc.GetSentiment(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.Sentiment{CrowdYesPct: 50}, sent)
}
