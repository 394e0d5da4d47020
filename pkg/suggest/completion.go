package suggest

import (
	"errors"
	"fmt"
	"math"

	"github.com/bastiangx/typeahead/pkg/term"
	"github.com/charmbracelet/log"
)

// ErrUnsorted is returned by Validate when the catalogue is not sorted by text.
var ErrUnsorted = errors.New("catalogue is not sorted by text")

// Completer serves ranked completions over one immutable catalogue snapshot.
// It is safe for concurrent use.
type Completer struct {
	terms        term.Collection
	hotCache     *HotCache
	verifySorted bool
	maxWeight    float64
}

// Option configures a Completer.
type Option func(*Completer)

// WithHotCache caches the ranked results of up to size prefixes.
// A size of 0 disables caching.
func WithHotCache(size int) Option {
	return func(c *Completer) {
		if size > 0 {
			c.hotCache = NewHotCache(size)
		}
	}
}

// WithVerifySorted makes the Completer check the sortedness precondition
// once at construction. Violations are logged and reported by Validate.
func WithVerifySorted(verify bool) Option {
	return func(c *Completer) {
		c.verifySorted = verify
	}
}

// NewCompleter creates a Completer over terms. terms must be sorted by text
// and must not be modified afterwards.
func NewCompleter(terms term.Collection, opts ...Option) *Completer {
	c := &Completer{terms: terms}
	for _, opt := range opts {
		opt(c)
	}

	for i, t := range terms {
		if i == 0 || t.Weight > c.maxWeight {
			c.maxWeight = t.Weight
		}
	}

	if c.verifySorted {
		if idx, unsorted := terms.FirstUnsorted(); unsorted {
			log.Errorf("Catalogue unsorted at index %d: %q sorts before %q", idx, terms[idx].Text, terms[idx-1].Text)
		} else {
			log.Debugf("Catalogue sortedness verified for %d terms", len(terms))
		}
	}
	return c
}

// Validate reports a violated sortedness precondition. It only checks when
// the Completer was built WithVerifySorted(true).
func (c *Completer) Validate() error {
	if !c.verifySorted {
		return nil
	}
	if idx, unsorted := c.terms.FirstUnsorted(); unsorted {
		return fmt.Errorf("%w: index %d", ErrUnsorted, idx)
	}
	return nil
}

// Complete returns the terms starting with prefix, heaviest first, truncated
// to limit when limit > 0.
func (c *Completer) Complete(prefix string, limit int) []term.Term {
	results, cached := c.hotCache.Get(prefix)
	if cached {
		log.Debugf("Hot cache hit for prefix '%s'", prefix)
	} else {
		results = Autocomplete(c.terms, prefix)
		if len(results) > 0 {
			c.hotCache.Put(prefix, results)
		}
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Range returns the inclusive index range of terms sharing prefix.
func (c *Completer) Range(prefix string) (int, int, bool) {
	return matchRange(c.terms, prefix)
}

// MaxWeight returns the heaviest weight in the catalogue, 0 when empty.
func (c *Completer) MaxWeight() float64 {
	return c.maxWeight
}

func (c *Completer) Stats() map[string]int {
	stats := map[string]int{
		"totalTerms": len(c.terms),
		"maxWeight":  clampInt(c.maxWeight),
	}

	if c.hotCache != nil {
		for k, v := range c.hotCache.Stats() {
			stats[k] = v
		}
	}
	return stats
}

// clampInt converts w to int, saturating at the int range. NaN maps to 0.
func clampInt(w float64) int {
	switch {
	case math.IsNaN(w):
		return 0
	case w >= math.MaxInt:
		return math.MaxInt
	case w <= math.MinInt:
		return math.MinInt
	}
	return int(w)
}
