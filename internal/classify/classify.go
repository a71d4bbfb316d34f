// Package classify derives routing flags and rating tags from normalized
// trade events.
package classify

import "whalecaster/internal/domain"

// Tag derivation thresholds, in quote-currency USD unless noted.
const (
	// MomentumMCChangePct is the minimum 15-minute market-cap change for the momentum tag.
	MomentumMCChangePct = 10.0
	// MomentumLiquidityFloor is the minimum liquidity for the momentum tag.
	MomentumLiquidityFloor = 50_000.0
	// HighVolumeMult is the minimum 5-minute volume multiple for the high-volume tag.
	HighVolumeMult = 3.0
	// RiskLiquidityFloor is the liquidity below which the risk tag applies.
	RiskLiquidityFloor = 15_000.0
)

// Watchlist reports membership of an address. Matches are exact and
// case-sensitive.
type Watchlist interface {
	Contains(addr string) bool
}

// Engine classifies trade events against a threshold and a watchlist.
type Engine struct {
	thresholdSOL float64
	watchlist    Watchlist
}

// NewEngine creates a classification engine. watchlist may be nil, in which
// case nothing matches.
func NewEngine(thresholdSOL float64, watchlist Watchlist) *Engine {
	return &Engine{thresholdSOL: thresholdSOL, watchlist: watchlist}
}

// Classify produces a Classification for one event. Total: any event and a
// nil market context are valid inputs.
//
// The whale boundary is inclusive: an event exactly at the threshold counts.
// A swap whose SOL leg resolved to zero is flagged as a non-native swap; it
// stays eligible for the whale channel so stablecoin-denominated trades are
// not silently dropped.
func (e *Engine) Classify(ev domain.TradeEvent, market *domain.MarketContext) domain.Classification {
	c := domain.Classification{
		IsWhale: ev.SolAmount >= e.thresholdSOL,
	}

	if e.watchlist != nil {
		c.IsWatch = e.watchlist.Contains(ev.SubjectAddress())
	}

	if ev.Kind == domain.EventKindSwap && ev.SolAmount == 0 {
		c.IsNonNativeSwap = true
	}

	c.Tags = deriveTags(market)

	return c
}

// deriveTags builds the ordered tag set. The whale tag always leads; the
// remaining tags require market context and keep first-occurrence order with
// duplicates suppressed.
func deriveTags(market *domain.MarketContext) []string {
	tags := []string{domain.TagWhale}

	if market != nil {
		liq := valueOr(market.LiquidityUSD, 0)

		if market.MCChange15mPct != nil && *market.MCChange15mPct >= MomentumMCChangePct && liq >= MomentumLiquidityFloor {
			tags = append(tags, domain.TagMomentum)
		}
		if market.VolumeMult5m != nil && *market.VolumeMult5m >= HighVolumeMult {
			tags = append(tags, domain.TagHighVolume)
		}
		if (market.LiquidityUSD != nil && *market.LiquidityUSD < RiskLiquidityFloor) ||
			(valueOrFalse(market.IsNew) && !valueOrFalse(market.Renounced)) {
			tags = append(tags, domain.TagRisk)
		}
	}

	return dedup(tags)
}

// dedup removes duplicates preserving first-occurrence order.
func dedup(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func valueOrFalse(p *bool) bool {
	return p != nil && *p
}
