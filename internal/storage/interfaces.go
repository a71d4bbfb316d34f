package storage

import (
	"context"

	"whalecaster/internal/domain"
)

// AlertLogStore provides access to the append-only alert_log storage.
// Records are written after dispatch and never updated.
type AlertLogStore interface {
	// Append adds a new alert record.
	Append(ctx context.Context, rec *domain.AlertRecord) error

	// GetByWallet retrieves all records for a wallet, ordered by dispatch time ASC.
	GetByWallet(ctx context.Context, wallet string) ([]*domain.AlertRecord, error)

	// GetRecent retrieves the most recent records, newest first, up to limit.
	GetRecent(ctx context.Context, limit int) ([]*domain.AlertRecord, error)
}

// DedupStore tracks delivered alerts so webhook re-deliveries do not produce
// duplicate notifications. Keys expire after the configured TTL.
type DedupStore interface {
	// Seen reports whether key was marked within the TTL window.
	Seen(ctx context.Context, key string) bool

	// Mark records key as delivered.
	Mark(ctx context.Context, key string)
}
