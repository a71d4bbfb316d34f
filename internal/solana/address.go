// Package solana holds small helpers for Solana address handling.
package solana

import (
	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// WSOL is the Wrapped SOL mint address.
const WSOL = "So11111111111111111111111111111111111111112"

// IsValidAddress reports whether addr decodes to a 32-byte public key.
// PDAs pass this check: they are real addresses, just off-curve. Callers
// that specifically need a signing-capable wallet combine it with IsOnCurve.
func IsValidAddress(addr string) bool {
	decoded, err := base58.Decode(addr)
	if err != nil {
		return false
	}
	return len(decoded) == 32
}

// IsOnCurve reports whether a 32-byte point lies on the ed25519 curve.
func IsOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

// IsWalletAddress reports whether addr is a base58 pubkey on the ed25519
// curve. Buyers sign their transactions, so watch targets are on-curve;
// program-derived addresses are off-curve and cannot appear as buyers.
func IsWalletAddress(addr string) bool {
	if !IsValidAddress(addr) {
		return false
	}
	decoded, _ := base58.Decode(addr)
	return IsOnCurve(decoded)
}
