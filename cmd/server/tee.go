package main

import (
	"context"
	"log"
	"os"

	"whalecaster/internal/domain"
	"whalecaster/internal/storage"
	chstore "whalecaster/internal/storage/clickhouse"
)

// teeAlertLog writes every alert to the Postgres log and mirrors it into
// ClickHouse for analytics. Reads are served from Postgres; the mirror is
// best-effort and its failures only get logged.
type teeAlertLog struct {
	primary storage.AlertLogStore
	mirror  *chstore.AlertHistoryStore
	logger  *log.Logger
}

var _ storage.AlertLogStore = (*teeAlertLog)(nil)

func (t *teeAlertLog) Append(ctx context.Context, rec *domain.AlertRecord) error {
	if err := t.primary.Append(ctx, rec); err != nil {
		return err
	}
	if err := t.mirror.Append(ctx, rec); err != nil {
		t.log().Printf("mirror alert to clickhouse: %v", err)
	}
	return nil
}

func (t *teeAlertLog) GetByWallet(ctx context.Context, wallet string) ([]*domain.AlertRecord, error) {
	return t.primary.GetByWallet(ctx, wallet)
}

func (t *teeAlertLog) GetRecent(ctx context.Context, limit int) ([]*domain.AlertRecord, error) {
	return t.primary.GetRecent(ctx, limit)
}

func (t *teeAlertLog) log() *log.Logger {
	if t.logger == nil {
		t.logger = log.New(os.Stdout, "[storage] ", log.LstdFlags)
	}
	return t.logger
}
