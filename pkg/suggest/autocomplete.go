package suggest

import "github.com/bastiangx/typeahead/pkg/term"

// Autocomplete returns every term in c whose text starts with prefix, ranked
// by weight descending. It returns nil when c or prefix is empty or when no
// term matches.
//
// The result never shares a backing array with c, and c is only read, so
// concurrent calls over the same collection need no locking.
func Autocomplete(c term.Collection, prefix string) []term.Term {
	lo, hi, ok := matchRange(c, prefix)
	if !ok {
		return nil
	}
	return RankByWeight(c[lo : hi+1])
}

// matchRange returns the inclusive index range of terms sharing prefix.
func matchRange(c term.Collection, prefix string) (int, int, bool) {
	if len(c) == 0 || prefix == "" {
		return 0, 0, false
	}
	lo, ok := LowestMatch(c, prefix)
	if !ok {
		return 0, 0, false
	}
	hi, ok := HighestMatch(c, prefix)
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}
