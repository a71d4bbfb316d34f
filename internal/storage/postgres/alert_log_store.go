package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"whalecaster/internal/domain"
	"whalecaster/internal/storage"
)

// AlertLogStore implements storage.AlertLogStore using PostgreSQL.
type AlertLogStore struct {
	pool *Pool
}

// NewAlertLogStore creates a new AlertLogStore.
func NewAlertLogStore(pool *Pool) *AlertLogStore {
	return &AlertLogStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AlertLogStore = (*AlertLogStore)(nil)

// Append adds a new alert record.
func (s *AlertLogStore) Append(ctx context.Context, rec *domain.AlertRecord) error {
	if rec == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO alert_log (
			wallet, token_mint, sol_amount, signature, channel, tags, timestamp, dispatched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		rec.Wallet,
		rec.TokenMint,
		rec.SolAmount,
		rec.Signature,
		string(rec.Channel),
		rec.Tags,
		rec.Timestamp,
		rec.DispatchedAt,
	)
	if err != nil {
		return fmt.Errorf("append alert record: %w", err)
	}
	return nil
}

// GetByWallet retrieves all records for a wallet, ordered by dispatch time ASC.
func (s *AlertLogStore) GetByWallet(ctx context.Context, wallet string) ([]*domain.AlertRecord, error) {
	query := `
		SELECT id, wallet, token_mint, sol_amount, signature, channel, tags, timestamp, dispatched_at
		FROM alert_log
		WHERE wallet = $1
		ORDER BY dispatched_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("get alerts by wallet: %w", err)
	}
	defer rows.Close()

	return scanAlertRecords(rows)
}

// GetRecent retrieves the most recent records, newest first, up to limit.
func (s *AlertLogStore) GetRecent(ctx context.Context, limit int) ([]*domain.AlertRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, wallet, token_mint, sol_amount, signature, channel, tags, timestamp, dispatched_at
		FROM alert_log
		ORDER BY dispatched_at DESC, id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent alerts: %w", err)
	}
	defer rows.Close()

	return scanAlertRecords(rows)
}

// scanAlertRecords scans multiple rows into a slice of AlertRecord.
func scanAlertRecords(rows pgx.Rows) ([]*domain.AlertRecord, error) {
	var records []*domain.AlertRecord

	for rows.Next() {
		var rec domain.AlertRecord
		var channel string

		err := rows.Scan(
			&rec.ID,
			&rec.Wallet,
			&rec.TokenMint,
			&rec.SolAmount,
			&rec.Signature,
			&channel,
			&rec.Tags,
			&rec.Timestamp,
			&rec.DispatchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan alert record row: %w", err)
		}

		rec.Channel = domain.Channel(channel)
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alert record rows: %w", err)
	}

	return records, nil
}
