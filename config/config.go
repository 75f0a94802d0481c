package config

import (
	"os"
	"strconv"
	"time"

	"cexwatch/promoworker/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string

	// Poll configuration
	PollInterval time.Duration

	// Browser renderer (ChromeDB) address, empty disables the browser strategy
	ChromeDBAddr string

	// URL template store path
	TemplatePath string

	// Price oracle endpoint, empty disables USD enrichment
	PriceAPIURL string

	// Promotion page URLs (HTML strategy)
	BybitPromoURL   string
	MexcPromoURL    string
	BinancePromoURL string
	GatePromoURL    string
	OkxPromoURL     string
	BitgetPromoURL  string

	// Promotion API endpoints (API strategy)
	BybitSplashURL   string
	MexcLaunchpadURL string
	MexcAirdropURL   string
	OkxBoostURL      string

	// Staking API endpoints
	BybitEarnURL   string
	KucoinEarnURL  string
	OkxEarnURL     string
	GateEarnURL    string
	MexcEarnURL    string
	BinanceEarnURL string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "10"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	pollInterval, _ := strconv.Atoi(getEnv("POLL_INTERVAL_SECONDS", "300"))

	return Config{
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "promos"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		PollInterval:         time.Duration(pollInterval) * time.Second,
		ChromeDBAddr:         getEnv("CHROMEDB_ADDR", "http://localhost:3000"),
		TemplatePath:         getEnv("URL_TEMPLATE_PATH", "url_templates.json"),
		PriceAPIURL:          getEnv("PRICE_API_URL", ""),
		BybitPromoURL:        getEnv("BYBIT_PROMO_URL", "https://www.bybit.com/en/activity-center"),
		MexcPromoURL:         getEnv("MEXC_PROMO_URL", "https://www.mexc.com/events"),
		BinancePromoURL:      getEnv("BINANCE_PROMO_URL", "https://www.binance.com/en/activity"),
		GatePromoURL:         getEnv("GATE_PROMO_URL", "https://www.gate.io/activities"),
		OkxPromoURL:          getEnv("OKX_PROMO_URL", "https://www.okx.com/campaigns"),
		BitgetPromoURL:       getEnv("BITGET_PROMO_URL", "https://www.bitget.com/events"),
		BybitSplashURL:       getEnv("BYBIT_SPLASH_URL", "https://api2.bybit.com/spot/api/token-splash/activity/list"),
		MexcLaunchpadURL:     getEnv("MEXC_LAUNCHPAD_URL", "https://www.mexc.com/api/operation/launchpad/list"),
		MexcAirdropURL:       getEnv("MEXC_AIRDROP_URL", "https://www.mexc.com/api/operation/eftd/list"),
		OkxBoostURL:          getEnv("OKX_BOOST_URL", "https://www.okx.com/priapi/v1/earn/boost/projects"),
		BybitEarnURL:         getEnv("BYBIT_EARN_URL", "https://api2.bybit.com/s1/byfi/get-product-list"),
		KucoinEarnURL:        getEnv("KUCOIN_EARN_URL", "https://api.kucoin.com/api/v1/earn/saving/products"),
		OkxEarnURL:           getEnv("OKX_EARN_URL", "https://www.okx.com/api/v5/finance/staking-defi/offers"),
		GateEarnURL:          getEnv("GATE_EARN_URL", "https://www.gate.io/apiw/v2/earn/staking/coins"),
		MexcEarnURL:          getEnv("MEXC_EARN_URL", "https://www.mexc.com/api/operateactivity/staking/list"),
		BinanceEarnURL:       getEnv("BINANCE_EARN_URL", "https://www.binance.com/bapi/earn/v1/friendly/finance-earn/simple-earn/homepage/details"),
		Environment:          getEnv("PROMO_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.RedisAddr == "" {
		return errors.NewConfiguration("redis address is required", nil)
	}
	if c.RedisStreamCount <= 0 {
		return errors.NewConfiguration("redis stream count must be positive", nil)
	}
	if c.PollInterval <= 0 {
		return errors.NewConfiguration("poll interval must be positive", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
