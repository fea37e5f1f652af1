package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lakuzo/marketwatch/internal/domain"
)

// PriceCache holds the live display price reported by a venue for a still
// open market, built by Client.PriceCache. Live prices are ephemeral: they
// live only here, under a TTL, and are never written back to the markets
// table.
type PriceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func livePriceKey(marketID string) string {
	return "live_price:" + marketID
}

// SetLive stores the latest venue-reported yes price for a market.
func (pc *PriceCache) SetLive(ctx context.Context, marketID string, price float64) error {
	val := strconv.FormatFloat(price, 'f', -1, 64)
	if err := pc.rdb.Set(ctx, livePriceKey(marketID), val, pc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set live price %s: %w", marketID, err)
	}
	return nil
}

// GetLive retrieves the cached live price for a market. It returns
// domain.ErrNotFound when no fresh quote is cached.
func (pc *PriceCache) GetLive(ctx context.Context, marketID string) (float64, error) {
	val, err := pc.rdb.Get(ctx, livePriceKey(marketID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("redis: get live price %s: %w", marketID, err)
	}
	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("redis: parse live price %s: %w", marketID, err)
	}
	return price, nil
}

// GetLiveBatch retrieves cached live prices for several markets with one
// round trip. Markets without a fresh quote are omitted from the result.
func (pc *PriceCache) GetLiveBatch(ctx context.Context, marketIDs []string) (map[string]float64, error) {
	if len(marketIDs) == 0 {
		return map[string]float64{}, nil
	}

	keys := make([]string, len(marketIDs))
	for i, id := range marketIDs {
		keys[i] = livePriceKey(id)
	}
	vals, err := pc.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: mget live prices: %w", err)
	}

	result := make(map[string]float64, len(marketIDs))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		price, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}
		result[marketIDs[i]] = price
	}
	return result, nil
}
