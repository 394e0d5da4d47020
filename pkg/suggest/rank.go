package suggest

import (
	"slices"

	"github.com/bastiangx/typeahead/pkg/term"
)

// RankByWeight returns a copy of terms ordered by weight, heaviest first.
// Terms of equal weight come back in no particular order. terms is not modified.
func RankByWeight(terms []term.Term) []term.Term {
	ranked := slices.Clone(terms)
	slices.SortFunc(ranked, term.ByWeightDesc)
	return ranked
}
