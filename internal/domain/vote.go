package domain

import "time"

// VoteChoice is the side a voter backed.
type VoteChoice string

const (
	VoteYes VoteChoice = "YES"
	VoteNo  VoteChoice = "NO"
)

// Vote is one wallet's sentiment call on a market. WeightAtTime freezes the
// voter's reputation at the moment of the vote so later reputation changes
// do not rewrite historical sentiment.
type Vote struct {
	ID            string
	MarketID      string
	WalletAddress string
	Choice        VoteChoice
	WeightAtTime  int
	TxHash        string
	CreatedAt     time.Time
}

// Sentiment aggregates the votes on a single market.
type Sentiment struct {
	YesRepAvg   int // average reputation weight behind YES
	NoRepAvg    int
	CrowdYesPct int // share of raw vote count on YES, 50 when empty
	TotalVotes  int
}

// ComputeSentiment reduces a vote list to display aggregates. An empty list
// yields a neutral 50/50 crowd split with zero weights.
func ComputeSentiment(votes []Vote) Sentiment {
	s := Sentiment{CrowdYesPct: 50}
	if len(votes) == 0 {
		return s
	}

	var yesRep, noRep, yesCount, noCount int
	for _, v := range votes {
		if v.Choice == VoteYes {
			yesRep += v.WeightAtTime
			yesCount++
		} else {
			noRep += v.WeightAtTime
			noCount++
		}
	}

	s.TotalVotes = yesCount + noCount
	if yesCount > 0 {
		s.YesRepAvg = int(float64(yesRep)/float64(yesCount) + 0.5)
	}
	if noCount > 0 {
		s.NoRepAvg = int(float64(noRep)/float64(noCount) + 0.5)
	}
	if s.TotalVotes > 0 {
		s.CrowdYesPct = int(float64(yesCount)/float64(s.TotalVotes)*100 + 0.5)
	}
	return s
}
