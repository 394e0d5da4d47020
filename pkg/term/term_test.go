package term

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByText(t *testing.T) {
	testCases := []struct {
		a, b string
		want int
	}{
		{"app", "apple", -1},
		{"apple", "app", 1},
		{"app", "app", 0},
		{"Zebra", "apple", -1},
		{"", "a", -1},
	}

	for _, tc := range testCases {
		t.Run(tc.a+"_"+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.want, ByText(New(tc.a, 0), New(tc.b, 0)))
		})
	}
}

func TestByWeightDesc(t *testing.T) {
	terms := []Term{
		New("a", 1),
		New("b", math.NaN()),
		New("c", 50),
		New("d", -3),
		New("e", 50),
	}
	slices.SortFunc(terms, ByWeightDesc)

	weights := make([]float64, 0, len(terms))
	for _, tm := range terms[:4] {
		weights = append(weights, tm.Weight)
	}
	assert.Equal(t, []float64{50, 50, 1, -3}, weights)
	assert.True(t, math.IsNaN(terms[4].Weight), "NaN weight should sort last")
}

func TestCollectionSortedness(t *testing.T) {
	sorted := Collection{New("a", 1), New("a", 5), New("ab", 3), New("b", 0)}
	assert.True(t, sorted.IsSorted())

	unsorted := Collection{New("a", 1), New("c", 2), New("b", 3)}
	idx, found := unsorted.FirstUnsorted()
	assert.True(t, found)
	assert.Equal(t, 2, idx)
	assert.False(t, unsorted.IsSorted())

	assert.True(t, Collection{}.IsSorted())
}

func TestHasPrefix(t *testing.T) {
	tm := New("application", 30)
	assert.True(t, tm.HasPrefix("app"))
	assert.True(t, tm.HasPrefix("application"))
	assert.False(t, tm.HasPrefix("applications"))
	assert.True(t, tm.HasPrefix(""))
}
