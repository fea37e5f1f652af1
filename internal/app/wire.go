package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lakuzo/marketwatch/internal/cache/redis"
	"github.com/lakuzo/marketwatch/internal/config"
	"github.com/lakuzo/marketwatch/internal/domain"
	"github.com/lakuzo/marketwatch/internal/platform/kalshi"
	"github.com/lakuzo/marketwatch/internal/platform/polymarket"
	"github.com/lakuzo/marketwatch/internal/service"
	"github.com/lakuzo/marketwatch/internal/store/postgres"
)

// Dependencies bundles everything the HTTP layer needs. It is constructed
// by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Postgres *postgres.Client
	Redis    *redis.Client // nil when disabled

	Repairs    *service.RepairService
	Markets    *service.MarketService
	Pairs      *service.PairService
	Votes      *service.VoteService
	Watchlists *service.WatchlistService
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// releases resources in reverse order.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Database.DSN,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.Database,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.PoolMaxConns,
		MinConns: cfg.Database.PoolMinConns,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Database.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: migrations: %w", err)
		}
	}

	pool := pgClient.Pool()
	marketStore := postgres.NewMarketStore(pool)
	pairStore := postgres.NewPairStore(pool)
	voteStore := postgres.NewVoteStore(pool)
	userStore := postgres.NewUserStore(pool)
	watchlistStore := postgres.NewWatchlistStore(pool)

	deps := &Dependencies{Postgres: pgClient}

	var (
		marketCache *redis.MarketCache
		priceCache  *redis.PriceCache
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
			MarketTTL:  time.Duration(cfg.Redis.MarketTTLSeconds) * time.Second,
			PriceTTL:   time.Duration(cfg.Redis.PriceTTLSeconds) * time.Second,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.Redis = redisClient
		marketCache = redisClient.MarketCache()
		priceCache = redisClient.PriceCache()
	}

	venues := map[domain.Platform]service.VenueClient{
		domain.PlatformPolymarket: polymarket.NewClient(cfg.Polymarket.GammaHost),
		domain.PlatformKalshi:     kalshi.NewClient(cfg.Kalshi.BaseURL),
	}

	// Nil interface values must stay nil, so the typed caches are only
	// assigned when Redis is up.
	if cfg.Redis.Enabled {
		deps.Repairs = service.NewRepairService(marketStore, venues, priceCache, marketCache,
			cfg.Repair.BatchLimit, logger)
		deps.Markets = service.NewMarketService(marketStore, marketCache, priceCache, logger)
	} else {
		deps.Repairs = service.NewRepairService(marketStore, venues, nil, nil,
			cfg.Repair.BatchLimit, logger)
		deps.Markets = service.NewMarketService(marketStore, nil, nil, logger)
	}
	deps.Pairs = service.NewPairService(pairStore, logger)
	deps.Votes = service.NewVoteService(voteStore, userStore, marketStore, logger)
	deps.Watchlists = service.NewWatchlistService(watchlistStore, marketStore, logger)

	return deps, cleanup, nil
}
