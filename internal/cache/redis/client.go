// Package redis holds the service's two Redis-backed caches and the client
// they share: a read-through market cache and an ephemeral live-price cache.
package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default TTLs, applied when the config leaves one unset. Markets refresh
// roughly once a minute; a live price older than a few minutes is worse
// than no price.
const (
	defaultMarketTTL = time.Minute
	defaultPriceTTL  = 5 * time.Minute
)

// ClientConfig holds connection parameters and the TTLs for the two caches
// the client serves.
type ClientConfig struct {
	Addr       string
	Password   string
	DB         int
	PoolSize   int
	MaxRetries int
	TLSEnabled bool

	MarketTTL time.Duration
	PriceTTL  time.Duration
}

// Client wraps a go-redis Client and hands out the typed caches built on
// top of it.
type Client struct {
	rdb       *redis.Client
	marketTTL time.Duration
	priceTTL  time.Duration
}

// New connects to Redis and pings it to verify connectivity.
func New(ctx context.Context, cfg ClientConfig) (*Client, error) {
	opts := &redis.Options{
		Addr:       cfg.Addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		PoolSize:   cfg.PoolSize,
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.TLSEnabled {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	c := &Client{rdb: rdb, marketTTL: cfg.MarketTTL, priceTTL: cfg.PriceTTL}
	if c.marketTTL <= 0 {
		c.marketTTL = defaultMarketTTL
	}
	if c.priceTTL <= 0 {
		c.priceTTL = defaultPriceTTL
	}
	return c, nil
}

// MarketCache returns the read-through market cache over this connection.
func (c *Client) MarketCache() *MarketCache {
	return &MarketCache{rdb: c.rdb, ttl: c.marketTTL}
}

// PriceCache returns the live-price cache over this connection.
func (c *Client) PriceCache() *PriceCache {
	return &PriceCache{rdb: c.rdb, ttl: c.priceTTL}
}

// Ping checks the Redis connection.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
