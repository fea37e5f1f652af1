package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeSentiment(t *testing.T) {
	votes := []Vote{
		{Choice: VoteYes, WeightAtTime: 100},
		{Choice: VoteYes, WeightAtTime: 250},
		{Choice: VoteNo, WeightAtTime: 80},
		{Choice: VoteNo, WeightAtTime: 120},
	}

	s := ComputeSentiment(votes)
	assert.Equal(t, 175, s.YesRepAvg)
	assert.Equal(t, 100, s.NoRepAvg)
	assert.Equal(t, 50, s.CrowdYesPct)
	assert.Equal(t, 4, s.TotalVotes)
}

func TestComputeSentimentRounds(t *testing.T) {
	votes := []Vote{
		{Choice: VoteYes, WeightAtTime: 100},
		{Choice: VoteYes, WeightAtTime: 101},
		{Choice: VoteNo, WeightAtTime: 90},
	}

	s := ComputeSentiment(votes)
	assert.Equal(t, 101, s.YesRepAvg, "100.5 rounds up")
	assert.Equal(t, 67, s.CrowdYesPct, "2/3 rounds to 67")
}

func TestComputeSentimentEmpty(t *testing.T) {
	assert.Equal(t, Sentiment{CrowdYesPct: 50}, ComputeSentiment(nil))
}

func TestComputeSentimentOneSided(t *testing.T) {
	s := ComputeSentiment([]Vote{{Choice: VoteYes, WeightAtTime: 300}})
	assert.Equal(t, 300, s.YesRepAvg)
	assert.Zero(t, s.NoRepAvg)
	assert.Equal(t, 100, s.CrowdYesPct)
}

func TestSoonestEnd(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	p := MarketPair{PolyEndDate: &late, KalshiEndDate: &early}
	assert.Equal(t, early, p.SoonestEnd())

	p = MarketPair{PolyEndDate: &early}
	assert.Equal(t, early, p.SoonestEnd())

	p = MarketPair{KalshiEndDate: &late}
	assert.Equal(t, late, p.SoonestEnd())

	assert.True(t, MarketPair{}.SoonestEnd().IsZero())
}
