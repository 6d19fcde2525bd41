package compose

import (
	"math"
	"sort"
	"strings"

	"github.com/ChrisMcGann/utca/pkg/core"
)

// Sort orders the table rows in place, by composition labels or by the
// deepest value. NaN values count as null: last when descending, first when
// ascending. Ties on value fall back to ascending composition order.
func (t *Table) Sort(by core.SortBy, order core.Order) {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := &t.Rows[i], &t.Rows[j]
		if by == core.SortByValue {
			if c := CompareValues(a.Value(), b.Value(), order); c != 0 {
				return c < 0
			}
			return CompareKeys(a.Composition, b.Composition) < 0
		}
		c := CompareKeys(a.Composition, b.Composition)
		if order == core.Descending {
			c = -c
		}
		return c < 0
	})
}

// CompareKeys compares composition labels lexicographically across levels.
func CompareKeys(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareInt(len(a), len(b))
}

// CompareValues compares two values in the given order treating NaN as null.
func CompareValues(a, b float64, order core.Order) int {
	aNull, bNull := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		if order == core.Descending {
			return 1
		}
		return -1
	case bNull:
		if order == core.Descending {
			return -1
		}
		return 1
	}
	c := compareFloat(a, b)
	if order == core.Descending {
		c = -c
	}
	return c
}
