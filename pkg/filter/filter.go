// Package filter provides display-side filtering of composition and
// comparison tables
package filter

import (
	"math"
	"sort"

	"github.com/ChrisMcGann/utca/pkg/compare"
	"github.com/ChrisMcGann/utca/pkg/compose"
)

// Config holds filtering configuration
type Config struct {
	TopN    int     // Keep only the N largest rows (0 = no limit)
	Cutoff  float64 // Keep only rows at or above this % of the largest value (0 = no cutoff)
	HideNaN bool    // Drop rows whose value is NaN
}

// Active reports whether any filter is configured.
func (c *Config) Active() bool {
	return c.TopN > 0 || c.Cutoff > 0 || c.HideNaN
}

// Composition returns a filtered copy of the table. Rows keep their order.
func (c *Config) Composition(t *compose.Table) *compose.Table {
	out := *t
	out.Rows = apply(c, t.Rows, func(r compose.Row) float64 { return r.Value() })
	return &out
}

// Comparison returns a filtered copy of the table, ranking rows by their mean.
// Rows keep their order and Meta.Index.
func (c *Config) Comparison(t *compare.Table) *compare.Table {
	out := *t
	out.Rows = apply(c, t.Rows, func(r compare.Row) float64 { return r.Meta.Mean })
	return &out
}

func apply[R any](c *Config, rows []R, value func(R) float64) []R {
	keep := make([]bool, len(rows))
	for i, row := range rows {
		keep[i] = !(c.HideNaN && math.IsNaN(value(row)))
	}

	// Apply intensity filters
	if c.Cutoff > 0 {
		filterByCutoff(c.Cutoff, rows, keep, value)
	}

	// Apply top-N filter
	if c.TopN > 0 {
		filterTopN(c.TopN, rows, keep, value)
	}

	filtered := make([]R, 0, len(rows))
	for i, row := range rows {
		if keep[i] {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// filterByCutoff drops rows below the cutoff percentage of the largest value
func filterByCutoff[R any](cutoff float64, rows []R, keep []bool, value func(R) float64) {
	// Find maximum value
	maxValue := math.Inf(-1)
	for i, row := range rows {
		if v := value(row); keep[i] && v > maxValue {
			maxValue = v
		}
	}
	if math.IsInf(maxValue, -1) {
		return
	}

	threshold := (cutoff / 100.0) * maxValue
	for i, row := range rows {
		if keep[i] && value(row) < threshold {
			keep[i] = false
		}
	}
}

// filterTopN keeps only the N largest rows; NaN ranks last
func filterTopN[R any](n int, rows []R, keep []bool, value func(R) float64) {
	var candidates []int
	for i := range rows {
		if keep[i] {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) <= n {
		return
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		va, vb := value(rows[candidates[a]]), value(rows[candidates[b]])
		if math.IsNaN(vb) {
			return !math.IsNaN(va)
		}
		return va > vb
	})

	for _, i := range candidates[n:] {
		keep[i] = false
	}
}
