package domain

// Rating tags rendered as the alert prefix. Order is user-facing: the whale
// tag always comes first, the rest follow first-occurrence order.
const (
	TagWhale      = "🐋"
	TagMomentum   = "🚀"
	TagHighVolume = "🔥"
	TagRisk       = "💩"
)

// Channel identifies an outbound notification destination.
type Channel string

const (
	ChannelWhale Channel = "whale"
	ChannelWatch Channel = "watch"
)

// Classification carries the routing flags and rating tags derived from one
// TradeEvent. Constructed fresh per event, never mutated.
type Classification struct {
	IsWhale         bool     // SolAmount >= configured threshold (inclusive)
	IsWatch         bool     // subject address is on the watchlist
	IsNonNativeSwap bool     // swap whose SOL leg resolved to zero
	Tags            []string // distinct markers, whale-first insertion order
}

// MarketContext is optional market data consulted for tag derivation. All
// fields are pointers: enrichment providers may supply any subset, and a nil
// context is valid.
type MarketContext struct {
	LiquidityUSD   *float64 // pool liquidity in USD
	MCChange15mPct *float64 // 15-minute market-cap change, percent
	VolumeMult5m   *float64 // 5-minute volume as a multiple of baseline
	IsNew          *bool    // token created recently
	Renounced      *bool    // mint/freeze authority renounced
}
