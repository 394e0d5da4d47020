package suggest

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/bastiangx/typeahead/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cities = collection(
	"Bern, Switzerland", 121631,
	"Berlin, Germany", 3426354,
	"Buenos Aires, Argentina", 13076300,
	"Busan, South Korea", 3678555,
	"Cairo, Egypt", 7734614,
)

func sortedCities() term.Collection {
	c := term.Collection{}
	c = append(c, cities...)
	// Berlin < Bern under byte order
	c[0], c[1] = c[1], c[0]
	return c
}

func TestCompleterComplete(t *testing.T) {
	c := NewCompleter(sortedCities(), WithHotCache(8))

	testCases := []struct {
		prefix string
		limit  int
		want   []string
	}{
		{"B", 0, []string{"Buenos Aires, Argentina", "Busan, South Korea", "Berlin, Germany", "Bern, Switzerland"}},
		{"B", 2, []string{"Buenos Aires, Argentina", "Busan, South Korea"}},
		{"Ber", 10, []string{"Berlin, Germany", "Bern, Switzerland"}},
		{"Cairo", 1, []string{"Cairo, Egypt"}},
		{"b", 0, nil},
		{"", 5, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.prefix, func(t *testing.T) {
			got := c.Complete(tc.prefix, tc.limit)
			assert.Equal(t, tc.want, nilIfEmpty(term.Collection(got).Texts()))
		})
	}

	// second round is served from the hot cache and must be identical
	got := c.Complete("B", 2)
	assert.Equal(t, []string{"Buenos Aires, Argentina", "Busan, South Korea"}, term.Collection(got).Texts())
	assert.Positive(t, c.Stats()["hotCacheHits"])
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestCompleterRange(t *testing.T) {
	c := NewCompleter(sortedCities())

	lo, hi, ok := c.Range("Bu")
	require.True(t, ok)
	assert.Equal(t, 2, lo)
	assert.Equal(t, 3, hi)

	_, _, ok = c.Range("Z")
	assert.False(t, ok)
}

func TestCompleterValidate(t *testing.T) {
	assert.NoError(t, NewCompleter(sortedCities(), WithVerifySorted(true)).Validate())

	err := NewCompleter(cities, WithVerifySorted(true)).Validate()
	assert.True(t, errors.Is(err, ErrUnsorted))

	assert.NoError(t, NewCompleter(cities).Validate(), "unchecked completers never report")
}

func TestCompleterStats(t *testing.T) {
	stats := NewCompleter(sortedCities()).Stats()
	assert.Equal(t, 5, stats["totalTerms"])
	assert.Equal(t, 13076300, stats["maxWeight"])
	_, hasCache := stats["hotCacheEntries"]
	assert.False(t, hasCache)
}

func TestCompleterHugeWeights(t *testing.T) {
	c := NewCompleter(term.Collection{term.New("a", 1e20), term.New("b", 3)})
	assert.Equal(t, 1e20, c.MaxWeight())
	assert.Equal(t, math.MaxInt, c.Stats()["maxWeight"])

	neg := NewCompleter(term.Collection{term.New("a", -1e20)})
	assert.Equal(t, math.MinInt, neg.Stats()["maxWeight"])
	assert.Zero(t, NewCompleter(nil).MaxWeight())
}

func TestCompleterConcurrent(t *testing.T) {
	c := NewCompleter(sortedCities(), WithHotCache(2))
	prefixes := []string{"B", "Be", "Bu", "C", "Ber", "x"}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				p := prefixes[i%len(prefixes)]
				got := c.Complete(p, 0)
				for j := 1; j < len(got); j++ {
					if got[j-1].Weight < got[j].Weight {
						t.Errorf("prefix %q not ranked: %v", p, got)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
