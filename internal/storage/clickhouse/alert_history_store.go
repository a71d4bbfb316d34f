package clickhouse

import (
	"context"
	"fmt"

	"whalecaster/internal/domain"
	"whalecaster/internal/storage"
)

// AlertHistoryStore implements storage.AlertLogStore using ClickHouse.
// It is the analytics mirror of the Postgres alert log; MergeTree ordering
// by (wallet, dispatched_at) keeps per-wallet history scans cheap.
type AlertHistoryStore struct {
	conn *Conn
}

// NewAlertHistoryStore creates a new AlertHistoryStore.
func NewAlertHistoryStore(conn *Conn) *AlertHistoryStore {
	return &AlertHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.AlertLogStore = (*AlertHistoryStore)(nil)

// Append adds a new alert record.
func (s *AlertHistoryStore) Append(ctx context.Context, rec *domain.AlertRecord) error {
	if rec == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO alert_history (
			wallet, token_mint, sol_amount, signature, channel, tags, timestamp, dispatched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		rec.Wallet,
		rec.TokenMint,
		rec.SolAmount,
		rec.Signature,
		string(rec.Channel),
		rec.Tags,
		uint64(rec.Timestamp),
		uint64(rec.DispatchedAt),
	)
	if err != nil {
		return fmt.Errorf("append alert history: %w", err)
	}
	return nil
}

// AppendBulk adds multiple records in one batch.
func (s *AlertHistoryStore) AppendBulk(ctx context.Context, recs []*domain.AlertRecord) error {
	if len(recs) == 0 {
		return nil
	}
	for _, rec := range recs {
		if rec == nil {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO alert_history (
			wallet, token_mint, sol_amount, signature, channel, tags, timestamp, dispatched_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, rec := range recs {
		err = batch.Append(
			rec.Wallet, rec.TokenMint, rec.SolAmount, rec.Signature,
			string(rec.Channel), rec.Tags, uint64(rec.Timestamp), uint64(rec.DispatchedAt),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByWallet retrieves all records for a wallet, ordered by dispatch time ASC.
func (s *AlertHistoryStore) GetByWallet(ctx context.Context, wallet string) ([]*domain.AlertRecord, error) {
	query := `
		SELECT wallet, token_mint, sol_amount, signature, channel, tags, timestamp, dispatched_at
		FROM alert_history
		WHERE wallet = ?
		ORDER BY dispatched_at ASC
	`

	rows, err := s.conn.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("query alerts by wallet: %w", err)
	}
	defer rows.Close()

	return scanAlertHistory(rows)
}

// GetRecent retrieves the most recent records, newest first, up to limit.
func (s *AlertHistoryStore) GetRecent(ctx context.Context, limit int) ([]*domain.AlertRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT wallet, token_mint, sol_amount, signature, channel, tags, timestamp, dispatched_at
		FROM alert_history
		ORDER BY dispatched_at DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent alerts: %w", err)
	}
	defer rows.Close()

	return scanAlertHistory(rows)
}

// chRows is the subset of driver.Rows used for scanning.
type chRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanAlertHistory scans multiple rows.
func scanAlertHistory(rows chRows) ([]*domain.AlertRecord, error) {
	var records []*domain.AlertRecord

	for rows.Next() {
		var rec domain.AlertRecord
		var channel string
		var timestamp, dispatchedAt uint64

		err := rows.Scan(
			&rec.Wallet, &rec.TokenMint, &rec.SolAmount, &rec.Signature,
			&channel, &rec.Tags, &timestamp, &dispatchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan alert history row: %w", err)
		}

		rec.Channel = domain.Channel(channel)
		rec.Timestamp = int64(timestamp)
		rec.DispatchedAt = int64(dispatchedAt)
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alert history rows: %w", err)
	}

	return records, nil
}
