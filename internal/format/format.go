// Package format renders normalized trade events into alert messages.
// Rendering is pure and total: sentinel values produce generic links rather
// than errors, so a message exists for every classified event.
package format

import (
	"fmt"
	"strings"

	"whalecaster/internal/domain"
)

// Explorer link bases interpolated with the token mint.
const (
	dexScreenerBase  = "https://dexscreener.com/solana"
	solscanTokenBase = "https://solscan.io/token/"
	solscanTxBase    = "https://solscan.io/tx/"
)

// Message is a rendered alert: a tag prefix plus a multi-line description.
// Channel adapters wrap it into their envelope (plain content or embed).
type Message struct {
	Tags        string // space-joined rating tags
	Description string // multi-line body, includes the tag prefix
}

// Plain returns the single-string form of the message.
func (m Message) Plain() string {
	return m.Description
}

// TitleFor returns the embed title used for a channel.
func TitleFor(ch domain.Channel) string {
	if ch == domain.ChannelWatch {
		return "Watchlist BUY"
	}
	return "Whale BUY Alert"
}

// Render builds the alert message for one classified event. market may be
// nil; enrichment fields then render as placeholders.
func Render(ev domain.TradeEvent, c domain.Classification, market *domain.MarketContext) Message {
	tags := strings.Join(c.Tags, " ")

	var b strings.Builder
	fmt.Fprintf(&b, "%s **Whale BUY Alert**\n", tags)
	fmt.Fprintf(&b, "**BUY:** %.2f SOL of token `%s`\n", ev.SolAmount, ev.TokenMint)
	fmt.Fprintf(&b, "🔗 **Address:** [Solscan](%s)\n", solscanURL(ev))
	fmt.Fprintf(&b, "👥 **Holders:** %s | **MC:** $%s | **LQ:** $%s\n", holders(market), marketCap(market), liquidity(market))
	fmt.Fprintf(&b, "🔥 **DexScreener:** %s\n", dexScreenerURL(ev))

	return Message{Tags: tags, Description: b.String()}
}

// dexScreenerURL links the token pair page, or the chain overview when the
// mint is unknown.
func dexScreenerURL(ev domain.TradeEvent) string {
	if ev.TokenMint == domain.UnknownMint {
		return dexScreenerBase
	}
	return dexScreenerBase + "/" + ev.TokenMint
}

// solscanURL links the token page, falling back to the transaction when the
// mint is unknown.
func solscanURL(ev domain.TradeEvent) string {
	if ev.TokenMint == domain.UnknownMint {
		return solscanTxBase + ev.Signature
	}
	return solscanTokenBase + ev.TokenMint
}

// Enrichment fields render as "?" placeholders until a market data provider
// supplies them (price/MC lookup is mocked in the current deployment).

func holders(_ *domain.MarketContext) string {
	return "?"
}

func marketCap(_ *domain.MarketContext) string {
	return "?"
}

func liquidity(market *domain.MarketContext) string {
	if market == nil || market.LiquidityUSD == nil {
		return "?"
	}
	return fmt.Sprintf("%.0f", *market.LiquidityUSD)
}
