// Package normalize converts raw, loosely-typed webhook payloads into
// canonical domain.TradeEvent values. Normalization is total: unknown or
// missing fields resolve to documented defaults, never to an error, because
// payload shape varies across event sub-types and provider versions.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"whalecaster/internal/domain"
)

// amountSubKeys are the recognized sub-keys of amount-bearing objects.
// Providers emit amounts as a bare number, a numeric string, or an object
// holding the value under one of these keys. Order is the lookup order;
// each key is tried exactly once.
var amountSubKeys = []string{"amount", "lamports", "tokenAmount", "rawTokenAmount"}

// Normalizer maps untyped payload trees into TradeEvents.
type Normalizer struct {
	now func() time.Time
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithClock overrides the clock used for defaulted timestamps.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		n.now = now
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts a raw payload into a TradeEvent. It never fails: every
// field falls back to its documented default when absent or malformed.
func (n *Normalizer) Normalize(raw map[string]any) domain.TradeEvent {
	ev := domain.TradeEvent{
		Kind:      kindOf(raw),
		TokenMint: domain.UnknownMint,
		Signature: domain.MissingSignature,
	}

	if sig, ok := raw["signature"].(string); ok && sig != "" {
		ev.Signature = sig
	}

	if ts, ok := numberFrom(raw["timestamp"]); ok && ts > 0 {
		ev.Timestamp = int64(ts)
	} else {
		ev.Timestamp = n.now().Unix()
	}

	ev.Buyer = buyerOf(raw)

	switch ev.Kind {
	case domain.EventKindSwap:
		n.fillFromSwap(&ev, raw)
	case domain.EventKindTransfer:
		n.fillFromTransfer(&ev, raw)
	}

	return ev
}

// fillFromSwap extracts the SOL leg and token mint from events.swap.
// The native input amount is preferred; when it is absent or zero the
// absolute native output is used instead, so sell-side swaps (which express
// the SOL leg as an output) are attributed symmetrically.
func (n *Normalizer) fillFromSwap(ev *domain.TradeEvent, raw map[string]any) {
	swap := mapAt(mapAt(raw, "events"), "swap")
	if swap == nil {
		return
	}

	lamportsIn := amountFrom(swap["nativeInput"])
	lamportsOut := amountFrom(swap["nativeOutput"])

	if lamportsIn != 0 {
		ev.SolAmount = math.Abs(lamportsIn) / domain.LamportsPerSOL
	} else if lamportsOut != 0 {
		ev.SolAmount = math.Abs(lamportsOut) / domain.LamportsPerSOL
	}

	if mint := mintOf(swap, "tokenOutput"); mint != "" {
		ev.TokenMint = mint
	} else if mint := mintOf(swap, "tokenInput"); mint != "" {
		ev.TokenMint = mint
	}
}

// fillFromTransfer extracts amount, counterparty and mint from the first
// native/token transfer entries.
func (n *Normalizer) fillFromTransfer(ev *domain.TradeEvent, raw map[string]any) {
	if native := firstMap(raw["nativeTransfers"]); native != nil {
		ev.SolAmount = math.Abs(amountFrom(native["amount"])) / domain.LamportsPerSOL
		if to, ok := native["toUserAccount"].(string); ok && to != "" {
			ev.Counterparty = to
		}
		if ev.Buyer == "" {
			if from, ok := native["fromUserAccount"].(string); ok {
				ev.Buyer = from
			}
		}
	}

	if token := firstMap(raw["tokenTransfers"]); token != nil {
		if mint, ok := token["mint"].(string); ok && mint != "" {
			ev.TokenMint = mint
		}
	}
}

// kindOf reads the case-insensitive type field. Anything outside the
// recognized set maps to UNKNOWN and the pipeline skips the event.
func kindOf(raw map[string]any) domain.EventKind {
	t, _ := raw["type"].(string)
	switch strings.ToUpper(t) {
	case "SWAP":
		return domain.EventKindSwap
	case "TRANSFER":
		return domain.EventKindTransfer
	default:
		return domain.EventKindUnknown
	}
}

// buyerOf reads the primary signer from the first accountData entry.
// The account field is a bare pubkey string in current provider payloads
// and a {"pubkey": ...} object in older ones.
func buyerOf(raw map[string]any) string {
	entry := firstMap(raw["accountData"])
	if entry == nil {
		return ""
	}
	switch acct := entry["account"].(type) {
	case string:
		return acct
	case map[string]any:
		pubkey, _ := acct["pubkey"].(string)
		return pubkey
	}
	return ""
}

// mintOf reads the mint of a swap leg, tolerating a missing leg object.
func mintOf(swap map[string]any, leg string) string {
	m := mapAt(swap, leg)
	if m == nil {
		return ""
	}
	mint, _ := m["mint"].(string)
	return mint
}

// amountFrom extracts a numeric amount from a value that is either a bare
// number, a numeric string, or an object carrying one of amountSubKeys.
func amountFrom(v any) float64 {
	if f, ok := numberFrom(v); ok {
		return f
	}
	m, ok := v.(map[string]any)
	if !ok {
		return 0
	}
	for _, key := range amountSubKeys {
		if f, ok := numberFrom(m[key]); ok {
			return f
		}
	}
	return 0
}

// numberFrom coerces JSON scalar shapes into a float64.
func numberFrom(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// mapAt returns the object at key, or nil when absent or not an object.
func mapAt(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	child, _ := m[key].(map[string]any)
	return child
}

// firstMap returns the first element of a list value when it is an object.
func firstMap(v any) map[string]any {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	first, _ := list[0].(map[string]any)
	return first
}
