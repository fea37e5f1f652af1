package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lakuzo/marketwatch/internal/domain"
)

// PairStore reads the detailed_market_pairs view. The view joins the raw
// pair table against both market legs so one query serves the screener.
type PairStore struct {
	pool *pgxpool.Pool
}

// NewPairStore creates a new PairStore backed by the given connection pool.
func NewPairStore(pool *pgxpool.Pool) *PairStore {
	return &PairStore{pool: pool}
}

// ListPairs returns every pair with both legs joined in, newest first.
func (s *PairStore) ListPairs(ctx context.Context) ([]domain.MarketPair, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pair_id, match_type, confidence_score,
		       poly_id, poly_title, poly_image, poly_active,
		       poly_yes, poly_no, poly_end_date,
		       kalshi_id, kalshi_title, kalshi_active,
		       kalshi_yes, kalshi_no, kalshi_end_date,
		       created_at
		FROM detailed_market_pairs
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list pairs: %w", err)
	}
	defer rows.Close()

	var pairs []domain.MarketPair
	for rows.Next() {
		var p domain.MarketPair
		var matchType string
		if err := rows.Scan(
			&p.PairID, &matchType, &p.ConfidenceScore,
			&p.PolyID, &p.PolyTitle, &p.PolyImage, &p.PolyActive,
			&p.PolyYes, &p.PolyNo, &p.PolyEndDate,
			&p.KalshiID, &p.KalshiTitle, &p.KalshiActive,
			&p.KalshiYes, &p.KalshiNo, &p.KalshiEndDate,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan pair: %w", err)
		}
		p.MatchType = domain.MatchType(matchType)
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate pairs: %w", err)
	}
	return pairs, nil
}
