// Package watchlist loads the operator-curated set of addresses of special
// interest. The set is loaded once at startup and is immutable afterwards,
// so it is safe to share across concurrent requests without locking.
package watchlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"whalecaster/internal/solana"
)

// Set is an immutable membership set of addresses. Matching is exact and
// case-sensitive.
type Set struct {
	members map[string]struct{}
}

// NewSet builds a Set from addresses, skipping empty entries.
func NewSet(addrs []string) *Set {
	members := make(map[string]struct{}, len(addrs))
	for _, a := range addrs {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		members[a] = struct{}{}
	}
	return &Set{members: members}
}

// Contains reports membership of addr.
func (s *Set) Contains(addr string) bool {
	if s == nil {
		return false
	}
	_, ok := s.members[addr]
	return ok
}

// Len returns the number of members.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}

// LoadFile reads a watchlist file: one address per line, blank lines and
// #-comments skipped. Entries must be on-curve pubkeys — the list matches
// buyer wallets, and program-derived addresses can never sign a buy. Lines
// failing that check are dropped and reported in the second return value so
// the caller can log them; a missing file yields an empty set.
func LoadFile(path string) (*Set, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSet(nil), nil, nil
		}
		return nil, nil, fmt.Errorf("open watchlist %s: %w", path, err)
	}
	defer f.Close()

	var addrs, invalid []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !solana.IsWalletAddress(line) {
			invalid = append(invalid, line)
			continue
		}
		addrs = append(addrs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read watchlist %s: %w", path, err)
	}

	return NewSet(addrs), invalid, nil
}
