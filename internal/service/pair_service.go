package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lakuzo/marketwatch/internal/domain"
	"github.com/lakuzo/marketwatch/internal/pairs"
)

// PairService serves the cross-venue yield screener.
type PairService struct {
	store  domain.PairStore
	logger *slog.Logger
}

// NewPairService creates a PairService over the pair view.
func NewPairService(store domain.PairStore, logger *slog.Logger) *PairService {
	return &PairService{store: store, logger: logger}
}

// ListYields loads every pair, drops the ones with an inactive leg, and
// returns the yields matching the filter in the requested order.
func (s *PairService) ListYields(ctx context.Context, f pairs.Filter) ([]pairs.Yield, error) {
	ps, err := s.store.ListPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("pair_service: list pairs: %w", err)
	}
	ys := pairs.Screen(ps, f)
	s.logger.DebugContext(ctx, "pair_service: screened pairs",
		slog.Int("total", len(ps)),
		slog.Int("shown", len(ys)),
	)
	return ys, nil
}
