// Package config loads service configuration from the environment.
// A .env file is honored when present; real environment variables win.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	HTTPAddr string

	WhaleWebhookURL string
	WatchWebhookURL string
	ThresholdSOL    float64
	WatchlistPath   string

	PostgresDSN   string
	ClickHouseDSN string
	UseMemory     bool

	RedisURL      string
	RedisPassword string
	RedisDB       int
	DedupTTL      time.Duration
	DedupMaxKeys  int

	Debug bool
}

// Load reads the configuration. Defaults match a local single-node run with
// in-memory stores and no webhooks configured.
func Load() Config {
	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	return Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		WhaleWebhookURL: getEnv("WH_WHALE", ""),
		WatchWebhookURL: getEnv("WH_WATCH", ""),
		ThresholdSOL:    getEnvFloat("THRESH_SOL", 500),
		WatchlistPath:   getEnv("WATCHLIST_PATH", "watchlist.txt"),

		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		ClickHouseDSN: getEnv("CLICKHOUSE_DSN", ""),
		UseMemory:     getEnvBool("USE_MEMORY", true),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		DedupTTL:      getEnvDuration("DEDUP_TTL", 25*time.Hour),
		DedupMaxKeys:  getEnvInt("DEDUP_MAX_KEYS", 100_000),

		Debug: getEnvBool("DEBUG", false),
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
