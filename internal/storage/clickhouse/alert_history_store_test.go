package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"whalecaster/internal/domain"
	"whalecaster/internal/storage"
)

func TestAlertHistoryStore_AppendAndQuery(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAlertHistoryStore(conn)
	ctx := context.Background()

	recs := []*domain.AlertRecord{
		{Wallet: "w1", TokenMint: "m1", SolAmount: 500.5, Signature: "sig1", Channel: domain.ChannelWhale, Tags: domain.TagWhale, Timestamp: 100, DispatchedAt: 110},
		{Wallet: "w2", TokenMint: "m2", SolAmount: 1.25, Signature: "sig2", Channel: domain.ChannelWatch, Tags: domain.TagWhale, Timestamp: 200, DispatchedAt: 210},
		{Wallet: "w1", TokenMint: "m3", SolAmount: 750, Signature: "sig3", Channel: domain.ChannelWhale, Tags: domain.TagWhale, Timestamp: 300, DispatchedAt: 310},
	}
	require.NoError(t, store.AppendBulk(ctx, recs))

	byWallet, err := store.GetByWallet(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, byWallet, 2)
	require.Equal(t, "m1", byWallet[0].TokenMint)
	require.Equal(t, "m3", byWallet[1].TokenMint)

	recent, err := store.GetRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "sig3", recent[0].Signature, "newest first")
}

func TestAlertHistoryStore_SingleAppend(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAlertHistoryStore(conn)
	ctx := context.Background()

	rec := &domain.AlertRecord{Wallet: "w9", TokenMint: "m9", SolAmount: 42, Signature: "sig9", Channel: domain.ChannelWhale, Timestamp: 1, DispatchedAt: 2}
	require.NoError(t, store.Append(ctx, rec))

	got, err := store.GetByWallet(ctx, "w9")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, domain.ChannelWhale, got[0].Channel)
	require.InDelta(t, 42.0, got[0].SolAmount, 1e-9)
}

func TestAlertHistoryStore_NilRejected(t *testing.T) {
	store := NewAlertHistoryStore(nil)

	require.ErrorIs(t, store.Append(context.Background(), nil), storage.ErrInvalidInput)
	require.ErrorIs(t, store.AppendBulk(context.Background(), []*domain.AlertRecord{nil}), storage.ErrInvalidInput)
}
