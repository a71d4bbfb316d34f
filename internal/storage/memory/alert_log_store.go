package memory

import (
	"context"
	"sync"

	"whalecaster/internal/domain"
	"whalecaster/internal/storage"
)

// AlertLogStore is an in-memory implementation of storage.AlertLogStore.
type AlertLogStore struct {
	mu     sync.RWMutex
	data   []*domain.AlertRecord
	nextID int64
}

// NewAlertLogStore creates a new in-memory alert log store.
func NewAlertLogStore() *AlertLogStore {
	return &AlertLogStore{
		data:   make([]*domain.AlertRecord, 0),
		nextID: 1,
	}
}

// Append adds a new alert record.
func (s *AlertLogStore) Append(_ context.Context, rec *domain.AlertRecord) error {
	if rec == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy so callers cannot mutate logged records.
	recCopy := *rec
	recCopy.ID = s.nextID
	s.nextID++
	s.data = append(s.data, &recCopy)

	return nil
}

// GetByWallet retrieves all records for a wallet, ordered by dispatch time ASC.
func (s *AlertLogStore) GetByWallet(_ context.Context, wallet string) ([]*domain.AlertRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AlertRecord
	for _, rec := range s.data {
		if rec.Wallet == wallet {
			recCopy := *rec
			result = append(result, &recCopy)
		}
	}

	// Records append in dispatch order, so insertion order is time order.
	return result, nil
}

// GetRecent retrieves the most recent records, newest first, up to limit.
func (s *AlertLogStore) GetRecent(_ context.Context, limit int) ([]*domain.AlertRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.data) {
		limit = len(s.data)
	}

	result := make([]*domain.AlertRecord, 0, limit)
	for i := len(s.data) - 1; i >= 0 && len(result) < limit; i-- {
		recCopy := *s.data[i]
		result = append(result, &recCopy)
	}

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.AlertLogStore = (*AlertLogStore)(nil)
