package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies MARKETWATCH_* environment variable overrides,
// and returns the final Config. The returned Config has NOT been validated;
// the caller should invoke Config.Validate() after Load. An empty path
// skips the file and uses defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known MARKETWATCH_* environment variables
// and overwrites the corresponding Config fields when a variable is set.
// This lets operators inject secrets at deploy time without touching the
// TOML file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Polymarket.GammaHost, "MARKETWATCH_POLYMARKET_GAMMA_HOST")
	setStr(&cfg.Kalshi.BaseURL, "MARKETWATCH_KALSHI_BASE_URL")

	setStr(&cfg.Database.DSN, "MARKETWATCH_DATABASE_DSN")
	setStr(&cfg.Database.DSN, "DATABASE_URL") // deploy platform alias
	setStr(&cfg.Database.Host, "MARKETWATCH_DATABASE_HOST")
	setInt(&cfg.Database.Port, "MARKETWATCH_DATABASE_PORT")
	setStr(&cfg.Database.Database, "MARKETWATCH_DATABASE_NAME")
	setStr(&cfg.Database.User, "MARKETWATCH_DATABASE_USER")
	setStr(&cfg.Database.Password, "MARKETWATCH_DATABASE_PASSWORD")
	setStr(&cfg.Database.SSLMode, "MARKETWATCH_DATABASE_SSLMODE")
	setInt(&cfg.Database.PoolMaxConns, "MARKETWATCH_DATABASE_POOL_MAX_CONNS")
	setInt(&cfg.Database.PoolMinConns, "MARKETWATCH_DATABASE_POOL_MIN_CONNS")
	setBool(&cfg.Database.RunMigrations, "MARKETWATCH_DATABASE_RUN_MIGRATIONS")

	setBool(&cfg.Redis.Enabled, "MARKETWATCH_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "MARKETWATCH_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "MARKETWATCH_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "MARKETWATCH_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "MARKETWATCH_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "MARKETWATCH_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "MARKETWATCH_REDIS_TLS_ENABLED")
	setInt(&cfg.Redis.MarketTTLSeconds, "MARKETWATCH_REDIS_MARKET_TTL_SECONDS")
	setInt(&cfg.Redis.PriceTTLSeconds, "MARKETWATCH_REDIS_PRICE_TTL_SECONDS")

	setInt(&cfg.Repair.BatchLimit, "MARKETWATCH_REPAIR_BATCH_LIMIT")

	setInt(&cfg.Server.Port, "MARKETWATCH_SERVER_PORT")
	setInt(&cfg.Server.Port, "PORT") // deploy platform alias
	setStringSlice(&cfg.Server.CORSOrigins, "MARKETWATCH_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "MARKETWATCH_SERVER_API_KEY")

	setStr(&cfg.LogLevel, "MARKETWATCH_LOG_LEVEL")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
