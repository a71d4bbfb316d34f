package domain

// EventKind identifies the kind of a chain transaction event.
type EventKind string

const (
	EventKindSwap     EventKind = "SWAP"
	EventKindTransfer EventKind = "TRANSFER"
	EventKindUnknown  EventKind = "UNKNOWN"
)

// Sentinel values carried instead of empty strings so formatting stays total.
const (
	// UnknownMint is used when neither swap leg carries a token mint.
	UnknownMint = "UNKNOWN"
	// MissingSignature is used when the payload has no transaction signature.
	MissingSignature = "N/A"
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

// TradeEvent is the canonical, normalized form of one webhook event.
// Constructed once by the normalizer and never mutated afterwards.
type TradeEvent struct {
	Kind         EventKind // SWAP, TRANSFER or UNKNOWN
	Buyer        string    // primary account/signer, empty if absent
	Counterparty string    // sender/receiver for transfers, empty if absent
	TokenMint    string    // target token mint, UnknownMint sentinel when absent
	SolAmount    float64   // native amount in SOL, always >= 0
	Signature    string    // transaction signature, MissingSignature sentinel when absent
	Timestamp    int64     // Unix seconds, ingestion time when absent from payload
}

// SubjectAddress returns the address relevant for watchlist matching:
// the buyer for swaps, falling back to the counterparty for transfers.
func (e TradeEvent) SubjectAddress() string {
	if e.Buyer != "" {
		return e.Buyer
	}
	return e.Counterparty
}
