/*
Package term holds the catalogue data model: weighted text entries and the
sorted collections the suggest package searches over.

Ordering is byte ordinal, the same as strings.Compare. No locale or Unicode
normalization is applied, so "Zebra" sorts before "apple".

A Collection is only useful to the suggest package if it is non-decreasing by
Text. The dictionary loader establishes that; everything else trusts it.
IsSorted and FirstUnsorted exist for callers that want to assert it anyway.
*/
package term

import (
	"cmp"
	"math"
	"strings"
)

// Term is a single catalogue entry.
type Term struct {
	Text   string  `msgpack:"w" json:"text"`
	Weight float64 `msgpack:"wt" json:"weight"`
}

// New returns a Term with the given text and weight.
func New(text string, weight float64) Term {
	return Term{Text: text, Weight: weight}
}

// HasPrefix reports whether the term's text starts with prefix.
func (t Term) HasPrefix(prefix string) bool {
	return strings.HasPrefix(t.Text, prefix)
}

// ByText orders terms lexicographically ascending by Text.
func ByText(a, b Term) int {
	return strings.Compare(a.Text, b.Text)
}

// ByWeightDesc orders terms by Weight, heaviest first.
// NaN weights sort after every other weight so the ordering stays total.
func ByWeightDesc(a, b Term) int {
	aNaN, bNaN := math.IsNaN(a.Weight), math.IsNaN(b.Weight)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	return cmp.Compare(b.Weight, a.Weight)
}

// Collection is a catalogue of terms sorted by Text.
type Collection []Term

// Len returns the number of terms.
func (c Collection) Len() int { return len(c) }

// IsSorted reports whether the collection is non-decreasing by Text.
func (c Collection) IsSorted() bool {
	_, unsorted := c.FirstUnsorted()
	return !unsorted
}

// FirstUnsorted returns the first index i where c[i] sorts before c[i-1].
func (c Collection) FirstUnsorted() (int, bool) {
	for i := 1; i < len(c); i++ {
		if ByText(c[i-1], c[i]) > 0 {
			return i, true
		}
	}
	return 0, false
}

// Texts returns the text of every term, in order.
func (c Collection) Texts() []string {
	texts := make([]string, len(c))
	for i, t := range c {
		texts[i] = t.Text
	}
	return texts
}
