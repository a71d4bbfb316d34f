package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 500.0, cfg.ThresholdSOL)
	assert.Equal(t, "watchlist.txt", cfg.WatchlistPath)
	assert.Equal(t, 25*time.Hour, cfg.DedupTTL)
	assert.True(t, cfg.UseMemory)
	assert.Empty(t, cfg.WhaleWebhookURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WH_WHALE", "https://discord.test/whale")
	t.Setenv("THRESH_SOL", "750.5")
	t.Setenv("DEDUP_TTL", "2h")
	t.Setenv("USE_MEMORY", "false")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, "https://discord.test/whale", cfg.WhaleWebhookURL)
	assert.Equal(t, 750.5, cfg.ThresholdSOL)
	assert.Equal(t, 2*time.Hour, cfg.DedupTTL)
	assert.False(t, cfg.UseMemory)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("THRESH_SOL", "lots")
	t.Setenv("DEDUP_TTL", "soon")
	t.Setenv("USE_MEMORY", "maybe")

	cfg := Load()

	assert.Equal(t, 500.0, cfg.ThresholdSOL)
	assert.Equal(t, 25*time.Hour, cfg.DedupTTL)
	assert.True(t, cfg.UseMemory)
}
