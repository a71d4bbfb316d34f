package domain

// AlertRecord is the append-only log entry written after an alert is
// dispatched. Corresponds to the alert_log table; also the payload sent to
// live stream subscribers.
type AlertRecord struct {
	ID           int64   `json:"id"`            // BIGSERIAL primary key (0 until stored)
	Wallet       string  `json:"wallet"`        // buyer/subject address
	TokenMint    string  `json:"token_mint"`    // target token mint
	SolAmount    float64 `json:"sol_amount"`    // trade size in SOL
	Signature    string  `json:"signature"`     // transaction signature
	Channel      Channel `json:"channel"`       // channel the alert went to
	Tags         string  `json:"tags"`          // rendered tag prefix at dispatch time
	Timestamp    int64   `json:"timestamp"`     // event timestamp, Unix seconds
	DispatchedAt int64   `json:"dispatched_at"` // dispatch timestamp, Unix seconds
}
