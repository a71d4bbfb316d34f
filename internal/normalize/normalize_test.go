package normalize

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"whalecaster/internal/domain"
)

func fixedClock() time.Time {
	return time.Unix(1700000000, 0)
}

func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	var raw map[string]any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return raw
}

func TestNormalize_SwapNativeInput(t *testing.T) {
	n := New(WithClock(fixedClock))

	raw := decode(t, `{
		"type": "SWAP",
		"signature": "5xAbc",
		"timestamp": 1699999000,
		"accountData": [{"account": "BuyerWallet111"}],
		"events": {"swap": {
			"nativeInput": {"amount": 500000000000},
			"tokenOutput": {"mint": "MintOut111"}
		}}
	}`)

	ev := n.Normalize(raw)

	if ev.Kind != domain.EventKindSwap {
		t.Fatalf("expected SWAP, got %s", ev.Kind)
	}
	if math.Abs(ev.SolAmount-500.0) > 1e-9 {
		t.Errorf("expected 500 SOL, got %v", ev.SolAmount)
	}
	if ev.Buyer != "BuyerWallet111" {
		t.Errorf("expected buyer BuyerWallet111, got %q", ev.Buyer)
	}
	if ev.TokenMint != "MintOut111" {
		t.Errorf("expected mint MintOut111, got %q", ev.TokenMint)
	}
	if ev.Signature != "5xAbc" {
		t.Errorf("expected signature 5xAbc, got %q", ev.Signature)
	}
	if ev.Timestamp != 1699999000 {
		t.Errorf("expected payload timestamp, got %d", ev.Timestamp)
	}
}

func TestNormalize_SwapNativeOutputFallback(t *testing.T) {
	n := New(WithClock(fixedClock))

	// Sell-side swap: SOL leg only present as a negative output.
	raw := decode(t, `{
		"type": "SWAP",
		"events": {"swap": {
			"nativeInput": {"amount": 0},
			"nativeOutput": {"amount": -250000000000},
			"tokenInput": {"mint": "MintIn222"}
		}}
	}`)

	ev := n.Normalize(raw)

	if math.Abs(ev.SolAmount-250.0) > 1e-9 {
		t.Errorf("expected 250 SOL from abs(nativeOutput), got %v", ev.SolAmount)
	}
	if ev.TokenMint != "MintIn222" {
		t.Errorf("expected tokenInput mint fallback, got %q", ev.TokenMint)
	}
}

func TestNormalize_AmountShapes(t *testing.T) {
	n := New(WithClock(fixedClock))

	cases := []struct {
		name  string
		input string
		want  float64
	}{
		{"bare number", `{"type":"SWAP","events":{"swap":{"nativeInput": 1000000000}}}`, 1.0},
		{"numeric string", `{"type":"SWAP","events":{"swap":{"nativeInput": "2000000000"}}}`, 2.0},
		{"amount sub-key", `{"type":"SWAP","events":{"swap":{"nativeInput":{"amount": 3000000000}}}}`, 3.0},
		{"lamports sub-key", `{"type":"SWAP","events":{"swap":{"nativeInput":{"lamports": 4000000000}}}}`, 4.0},
		{"tokenAmount sub-key", `{"type":"SWAP","events":{"swap":{"nativeInput":{"tokenAmount": "5000000000"}}}}`, 5.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := n.Normalize(decode(t, tc.input))
			if math.Abs(ev.SolAmount-tc.want) > 1e-9 {
				t.Errorf("expected %v SOL, got %v", tc.want, ev.SolAmount)
			}
		})
	}
}

func TestNormalize_MissingTypeIsUnknown(t *testing.T) {
	n := New(WithClock(fixedClock))

	ev := n.Normalize(decode(t, `{"signature": "abc"}`))

	if ev.Kind != domain.EventKindUnknown {
		t.Fatalf("expected UNKNOWN, got %s", ev.Kind)
	}
}

func TestNormalize_TypeCaseInsensitive(t *testing.T) {
	n := New(WithClock(fixedClock))

	ev := n.Normalize(decode(t, `{"type": "swap"}`))
	if ev.Kind != domain.EventKindSwap {
		t.Errorf("lowercase type: expected SWAP, got %s", ev.Kind)
	}

	ev = n.Normalize(decode(t, `{"type": "Transfer"}`))
	if ev.Kind != domain.EventKindTransfer {
		t.Errorf("mixed-case type: expected TRANSFER, got %s", ev.Kind)
	}
}

func TestNormalize_EmptyPayloadDefaults(t *testing.T) {
	n := New(WithClock(fixedClock))

	ev := n.Normalize(map[string]any{})

	if ev.Kind != domain.EventKindUnknown {
		t.Errorf("expected UNKNOWN kind, got %s", ev.Kind)
	}
	if ev.TokenMint != domain.UnknownMint {
		t.Errorf("expected mint sentinel, got %q", ev.TokenMint)
	}
	if ev.Signature != domain.MissingSignature {
		t.Errorf("expected signature sentinel, got %q", ev.Signature)
	}
	if ev.SolAmount != 0 {
		t.Errorf("expected zero amount, got %v", ev.SolAmount)
	}
	if ev.Timestamp != fixedClock().Unix() {
		t.Errorf("expected ingestion-time default, got %d", ev.Timestamp)
	}
}

func TestNormalize_BuyerObjectShape(t *testing.T) {
	n := New(WithClock(fixedClock))

	raw := decode(t, `{
		"type": "SWAP",
		"accountData": [{"account": {"pubkey": "LegacyBuyer333"}}]
	}`)

	if ev := n.Normalize(raw); ev.Buyer != "LegacyBuyer333" {
		t.Errorf("expected legacy pubkey shape to resolve, got %q", ev.Buyer)
	}
}

func TestNormalize_Transfer(t *testing.T) {
	n := New(WithClock(fixedClock))

	raw := decode(t, `{
		"type": "TRANSFER",
		"accountData": [{"account": "Sender444"}],
		"nativeTransfers": [{"fromUserAccount": "Sender444", "toUserAccount": "Receiver555", "amount": 1500000000}],
		"tokenTransfers": [{"mint": "TransferMint666"}]
	}`)

	ev := n.Normalize(raw)

	if math.Abs(ev.SolAmount-1.5) > 1e-9 {
		t.Errorf("expected 1.5 SOL, got %v", ev.SolAmount)
	}
	if ev.Counterparty != "Receiver555" {
		t.Errorf("expected counterparty Receiver555, got %q", ev.Counterparty)
	}
	if ev.TokenMint != "TransferMint666" {
		t.Errorf("expected TransferMint666, got %q", ev.TokenMint)
	}
}

func TestNormalize_MalformedNestedShapesNeverPanic(t *testing.T) {
	n := New(WithClock(fixedClock))

	fixtures := []string{
		`{"type": "SWAP", "events": "not-an-object"}`,
		`{"type": "SWAP", "events": {"swap": {"nativeInput": [1, 2, 3]}}}`,
		`{"type": "SWAP", "accountData": ["bare-string"]}`,
		`{"type": "SWAP", "accountData": []}`,
		`{"type": "TRANSFER", "nativeTransfers": [42]}`,
		`{"type": 12345, "signature": false, "timestamp": "soon"}`,
	}

	for _, body := range fixtures {
		ev := n.Normalize(decode(t, body))
		if ev.SolAmount < 0 {
			t.Errorf("fixture %s: negative SolAmount %v", body, ev.SolAmount)
		}
	}
}
