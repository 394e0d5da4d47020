// Package suggest is the core: it locates the block of catalogue terms sharing
// a prefix with two binary searches and ranks that block by weight.
package suggest

import "github.com/bastiangx/typeahead/pkg/term"

// ICompleter defines the interface the CLI and server use to query a catalogue
type ICompleter interface {
	// Complete returns up to limit ranked matches for prefix; limit <= 0 means all
	Complete(prefix string, limit int) []term.Term

	// Range returns the inclusive index range of terms sharing prefix
	Range(prefix string) (lo, hi int, ok bool)

	// MaxWeight returns the heaviest weight in the catalogue
	MaxWeight() float64

	// Stats returns statistics about the loaded catalogue
	Stats() map[string]int
}
