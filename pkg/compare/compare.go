// Package compare joins per-sample composition tables on their composition
// labels and reports per-row statistics across samples.
package compare

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ChrisMcGann/utca/pkg/compose"
	"github.com/ChrisMcGann/utca/pkg/core"
)

// Settings is the subset of core.Settings the comparator depends on.
type Settings struct {
	Join   core.Join
	DDOF   uint8
	Sort   core.SortBy
	Order  core.Order
	Levels int
}

// SettingsOf extracts the comparison settings.
func SettingsOf(s core.Settings) Settings {
	return Settings{
		Join:   s.Join,
		DDOF:   s.DDOF,
		Sort:   s.Sort,
		Order:  s.Order,
		Levels: s.Levels(),
	}
}

// Meta carries the row index and the statistics across samples.
type Meta struct {
	Index uint32
	Mean  float64
	Std   float64
	Var   float64
}

// Row is one composition key across all samples.
type Row struct {
	Meta        Meta
	Composition []string
	Values      []*float64 // One per sample; nil where the sample lacks the key
}

// Table is the comparator output.
type Table struct {
	Samples []string // Column names, in input order
	Levels  int
	Rows    []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Compare joins the tables on their composition keys. Left keeps the keys of
// the first table, And the keys present in every table and Or the keys
// present in any. Without tables the result is empty but carries the
// configured number of composition levels.
func Compare(tables []*compose.Table, settings Settings) *Table {
	out := &Table{Levels: settings.Levels}
	if len(tables) == 0 {
		return out
	}
	out.Levels = tables[0].Levels

	type entry struct {
		composition []string
		values      []*float64
	}
	var order []string
	entries := make(map[string]*entry)
	names := make(map[string]bool)
	for s, table := range tables {
		out.Samples = append(out.Samples, uniqueName(names, table.Name))
		for i := range table.Rows {
			row := &table.Rows[i]
			key := row.Key()
			e, ok := entries[key]
			if !ok {
				if s > 0 && settings.Join == core.JoinLeft {
					continue
				}
				e = &entry{composition: row.Composition, values: make([]*float64, len(tables))}
				entries[key] = e
				order = append(order, key)
			}
			v := row.Value()
			if e.values[s] != nil {
				v += *e.values[s]
			}
			e.values[s] = &v
		}
	}

	for _, key := range order {
		e := entries[key]
		if settings.Join == core.JoinAnd && !complete(e.values) {
			continue
		}
		row := Row{Composition: e.composition, Values: e.values}
		row.Meta.Mean, row.Meta.Std, row.Meta.Var = Statistics(e.values, settings.DDOF)
		out.Rows = append(out.Rows, row)
	}

	out.Sort(settings.Sort, settings.Order)
	return out
}

// uniqueName returns name, or name with the first free " (k)" suffix when
// another sample already uses it.
func uniqueName(used map[string]bool, name string) string {
	unique := name
	for k := 2; used[unique]; k++ {
		unique = fmt.Sprintf("%s (%d)", name, k)
	}
	used[unique] = true
	return unique
}

// Statistics returns mean, standard deviation and variance of the non-null
// values. The variance divides the sum of squared deviations by n - ddof and
// is NaN when that is not positive.
func Statistics(values []*float64, ddof uint8) (mean, std, variance float64) {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil {
			xs = append(xs, *v)
		}
	}
	n := len(xs)
	if n == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	mean = stat.Mean(xs, nil)
	dof := n - int(ddof)
	if dof <= 0 {
		return mean, math.NaN(), math.NaN()
	}
	variance = stat.Moment(2, xs, nil) * float64(n) / float64(dof)
	return mean, math.Sqrt(variance), variance
}

// Sort orders rows in place by composition labels or by mean value and then
// renumbers Meta.Index.
func (t *Table) Sort(by core.SortBy, order core.Order) {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := &t.Rows[i], &t.Rows[j]
		if by == core.SortByValue {
			if c := compose.CompareValues(a.Meta.Mean, b.Meta.Mean, order); c != 0 {
				return c < 0
			}
			return compose.CompareKeys(a.Composition, b.Composition) < 0
		}
		c := compose.CompareKeys(a.Composition, b.Composition)
		if order == core.Descending {
			c = -c
		}
		return c < 0
	})
	for i := range t.Rows {
		t.Rows[i].Meta.Index = uint32(i)
	}
}

func complete(values []*float64) bool {
	for _, v := range values {
		if v == nil {
			return false
		}
	}
	return true
}
