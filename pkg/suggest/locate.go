package suggest

import (
	"strings"

	"github.com/bastiangx/typeahead/pkg/term"
)

// LowestMatch returns the smallest index in c whose text starts with prefix.
// The second result is false when nothing matches, when c is empty or when
// prefix is empty. An empty prefix matches nothing.
//
// c must be sorted by text; see term.Collection.
func LowestMatch(c term.Collection, prefix string) (int, bool) {
	return boundary(c, prefix, false)
}

// HighestMatch returns the largest index in c whose text starts with prefix.
// It follows the same rules as LowestMatch.
func HighestMatch(c term.Collection, prefix string) (int, bool) {
	return boundary(c, prefix, true)
}

// boundary binary searches for the edge of the block of entries sharing
// prefix. Entries with a common prefix are contiguous in a sorted collection,
// so a hit narrows towards the wanted edge and a miss is steered by comparing
// the entry's leading bytes against prefix.
func boundary(c term.Collection, prefix string, highest bool) (int, bool) {
	if len(c) == 0 || prefix == "" {
		return 0, false
	}

	left, right := 0, len(c)-1
	result, found := 0, false

	for left <= right {
		mid := left + (right-left)/2
		text := c[mid].Text

		if strings.HasPrefix(text, prefix) {
			result, found = mid, true
			if highest {
				left = mid + 1
			} else {
				right = mid - 1
			}
			continue
		}

		if comparePrefix(text, prefix) < 0 {
			left = mid + 1
		} else {
			right = mid - 1
		}
	}
	return result, found
}

// comparePrefix compares the first len(prefix) bytes of text with prefix.
// A text shorter than prefix that agrees on its whole length compares less.
func comparePrefix(text, prefix string) int {
	if len(text) > len(prefix) {
		text = text[:len(prefix)]
	}
	return strings.Compare(text, prefix)
}
