// Package watchlist manages the user-extensible half of the ticker
// universe: a small, client-persisted extension set layered on top of the
// fixed universe. Entries are validated, deduplicated and bounded before
// they ever reach the pipeline.
package watchlist

import (
	"twpulse/pkg/contracts/domain"
)

// MaxEntries bounds the extension set.
const MaxEntries = 2

// Normalize validates raw user input against the ticker pattern, drops
// duplicates (against the input itself and against the fixed universe) and
// truncates to MaxEntries, preserving first-occurrence order. Invalid
// entries are silently dropped; bad user input is not a hard error.
func Normalize(raw []string, fixed []domain.TickerID) []domain.TickerID {
	seen := make(map[domain.TickerID]bool, len(fixed)+MaxEntries)
	for _, f := range fixed {
		seen[f] = true
	}

	out := make([]domain.TickerID, 0, MaxEntries)
	for _, entry := range raw {
		ticker, ok := domain.ParseTickerID(entry)
		if !ok || seen[ticker] {
			continue
		}
		seen[ticker] = true
		out = append(out, ticker)
		if len(out) == MaxEntries {
			break
		}
	}
	return out
}
