// Package redis provides Redis-backed storage for deployments where several
// replicas must share dedup state.
package redis

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"whalecaster/internal/storage"
)

const keyPrefix = "dedupe:"

// DedupStore implements storage.DedupStore on Redis using TTL keys.
// Redis errors degrade to "not seen": a flaky Redis must never block alert
// delivery, at worst it allows a duplicate.
type DedupStore struct {
	cli    *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// NewDedupStore creates a Redis dedup store.
func NewDedupStore(cli *redis.Client, ttl time.Duration, logger *log.Logger) *DedupStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = log.New(os.Stdout, "[redis] ", log.LstdFlags)
	}
	return &DedupStore{cli: cli, ttl: ttl, logger: logger}
}

// Seen reports whether key was marked within the TTL window.
func (s *DedupStore) Seen(ctx context.Context, key string) bool {
	n, err := s.cli.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		s.logger.Printf("dedup exists %s: %v", key, err)
		return false
	}
	return n > 0
}

// Mark records key as delivered.
func (s *DedupStore) Mark(ctx context.Context, key string) {
	if err := s.cli.Set(ctx, keyPrefix+key, 1, s.ttl).Err(); err != nil {
		s.logger.Printf("dedup mark %s: %v", key, err)
	}
}

// Verify interface compliance at compile time.
var _ storage.DedupStore = (*DedupStore)(nil)
