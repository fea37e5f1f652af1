package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lakuzo/marketwatch/internal/book"
	"github.com/lakuzo/marketwatch/internal/domain"
)

// marketReadStore is the slice of the market store the read paths use.
type marketReadStore interface {
	GetByID(ctx context.Context, id string) (domain.Market, error)
	List(ctx context.Context, f domain.MarketFilter) ([]domain.Market, error)
	Count(ctx context.Context, f domain.MarketFilter) (int64, error)
}

// marketCache is a read-through cache for single market lookups.
type marketCache interface {
	Get(ctx context.Context, id string) (domain.Market, error)
	Set(ctx context.Context, m domain.Market) error
}

// livePriceReader serves the ephemeral venue quotes the repair pipeline
// parked in Redis.
type livePriceReader interface {
	GetLive(ctx context.Context, marketID string) (float64, error)
	GetLiveBatch(ctx context.Context, marketIDs []string) (map[string]float64, error)
}

// MarketDetail is the full display view of one market: the stored record
// with the live quote overlaid, plus the derived order book and venue URL.
type MarketDetail struct {
	Market domain.Market  `json:"market"`
	Book   book.OrderBook `json:"book"`
	URL    string         `json:"url"`
}

// MarketService serves market reads and the single-market arbitrage screen.
type MarketService struct {
	markets marketReadStore
	cache   marketCache
	prices  livePriceReader
	logger  *slog.Logger
}

// NewMarketService creates a MarketService. cache and prices may be nil
// when Redis is disabled.
func NewMarketService(markets marketReadStore, cache marketCache, prices livePriceReader, logger *slog.Logger) *MarketService {
	return &MarketService{markets: markets, cache: cache, prices: prices, logger: logger}
}

// ListMarkets returns a filtered page of markets plus the unpaged total.
// Live quotes overlay CurrentYesPrice for still open markets.
func (s *MarketService) ListMarkets(ctx context.Context, f domain.MarketFilter) ([]domain.Market, int64, error) {
	markets, err := s.markets.List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("market_service: list: %w", err)
	}
	total, err := s.markets.Count(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("market_service: count: %w", err)
	}

	s.overlayLivePrices(ctx, markets)
	return markets, total, nil
}

// GetMarket retrieves one market with its derived book and venue URL,
// checking the cache first.
func (s *MarketService) GetMarket(ctx context.Context, id string) (MarketDetail, error) {
	m, err := s.cachedGet(ctx, id)
	if err != nil {
		return MarketDetail{}, err
	}

	if m.Active && s.prices != nil {
		if price, err := s.prices.GetLive(ctx, id); err == nil {
			m.CurrentYesPrice = &price
		}
	}

	return MarketDetail{
		Market: m,
		Book:   book.Normalize(m),
		URL:    m.MarketURL(),
	}, nil
}

func (s *MarketService) cachedGet(ctx context.Context, id string) (domain.Market, error) {
	if s.cache != nil {
		if m, err := s.cache.Get(ctx, id); err == nil {
			return m, nil
		}
	}

	m, err := s.markets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Market{}, domain.ErrNotFound
		}
		return domain.Market{}, fmt.Errorf("market_service: get by id %q: %w", id, err)
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, m); cacheErr != nil {
			s.logger.WarnContext(ctx, "market_service: cache set failed",
				slog.String("market_id", m.ID),
				slog.String("error", cacheErr.Error()),
			)
		}
	}
	return m, nil
}

// Arbitrage runs the single-market screener over every active market.
func (s *MarketService) Arbitrage(ctx context.Context) ([]book.ScreenHit, error) {
	active := true
	markets, err := s.markets.List(ctx, domain.MarketFilter{Active: &active})
	if err != nil {
		return nil, fmt.Errorf("market_service: list active: %w", err)
	}
	s.overlayLivePrices(ctx, markets)
	return book.Screen(markets), nil
}

func (s *MarketService) overlayLivePrices(ctx context.Context, markets []domain.Market) {
	if s.prices == nil || len(markets) == 0 {
		return
	}
	ids := make([]string, 0, len(markets))
	for _, m := range markets {
		if m.Active {
			ids = append(ids, m.ID)
		}
	}
	live, err := s.prices.GetLiveBatch(ctx, ids)
	if err != nil {
		s.logger.WarnContext(ctx, "market_service: live price batch failed",
			slog.String("error", err.Error()),
		)
		return
	}
	for i := range markets {
		if price, ok := live[markets[i].ID]; ok {
			markets[i].CurrentYesPrice = &price
		}
	}
}
