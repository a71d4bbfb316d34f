// Package market defines the optional market-context lookup consulted by tag
// derivation. Real enrichment providers (price/MC/liquidity APIs) plug in
// behind Provider; the service currently ships with the static stub.
package market

import (
	"context"

	"whalecaster/internal/domain"
)

// Provider looks up market context for a token mint. A nil result with a nil
// error means "no data", which is a valid, expected outcome.
type Provider interface {
	Context(ctx context.Context, mint string) (*domain.MarketContext, error)
}

// StaticProvider returns the same context for every mint. The zero value
// returns no data, which keeps tag derivation at the whale marker only.
type StaticProvider struct {
	Ctx *domain.MarketContext
}

// Context implements Provider.
func (p *StaticProvider) Context(_ context.Context, _ string) (*domain.MarketContext, error) {
	return p.Ctx, nil
}

// Verify interface compliance at compile time.
var _ Provider = (*StaticProvider)(nil)
