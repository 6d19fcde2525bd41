package compose

import (
	"strings"

	"github.com/ChrisMcGann/utca/pkg/core"
)

// keySeparator joins composition labels into map keys. Labels never contain it.
const keySeparator = "\x1f"

// Leaf is one triplet nested under its deepest bucket.
type Leaf struct {
	Species string
	Value   float64
}

// Row is one deepest-level bucket of a composition table.
type Row struct {
	Composition []string  // Composition0..Composition{G-1}
	Values      []float64 // Value0..Value{G-1}; Value{i} is the sum of the level-i bucket
	Species     []Leaf
}

// Value returns the deepest-level value.
func (r *Row) Value() float64 {
	return r.Values[len(r.Values)-1]
}

// Key returns the composition labels joined into a single comparable key.
func (r *Row) Key() string {
	return strings.Join(r.Composition, keySeparator)
}

// Table is the aggregator output for one sample.
type Table struct {
	Name   string
	Levels int
	Rows   []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Total returns the sum of deepest-level values.
func (t *Table) Total() float64 {
	total := 0.0
	for i := range t.Rows {
		total += t.Rows[i].Value()
	}
	return total
}

// Leaves returns the number of triplets nested in the table.
func (t *Table) Leaves() int {
	n := 0
	for i := range t.Rows {
		n += len(t.Rows[i].Species)
	}
	return n
}

type leaf struct {
	labeled Labeled
	values  []float64
}

// Aggregate groups labeled triplets level by level. At level i triplets are
// grouped by Composition0..Composition{i}, the bucket sum becomes Value{i},
// and buckets whose sum is below groups[i].Filter.Value are dropped before the
// next level is grouped. Surviving triplets are nested under their deepest
// bucket in input order. Row order is first appearance; use Sort to order.
func Aggregate(name string, labeled []Labeled, groups []core.Group) *Table {
	levels := len(groups)
	if levels == 0 {
		return passthrough(name, labeled)
	}

	leaves := make([]leaf, len(labeled))
	for i, l := range labeled {
		leaves[i] = leaf{labeled: l, values: make([]float64, levels)}
	}

	for level, group := range groups {
		sums := make(map[string]float64)
		keys := make([]string, len(leaves))
		for i := range leaves {
			keys[i] = prefixKey(leaves[i].labeled.Composition, level)
			sums[keys[i]] += leaves[i].labeled.Value
		}
		kept := leaves[:0]
		for i := range leaves {
			sum := sums[keys[i]]
			if sum < group.Filter.Value {
				continue
			}
			leaves[i].values[level] = sum
			kept = append(kept, leaves[i])
		}
		leaves = kept
	}

	table := &Table{Name: name, Levels: levels}
	index := make(map[string]int)
	for _, l := range leaves {
		key := prefixKey(l.labeled.Composition, levels-1)
		i, ok := index[key]
		if !ok {
			i = len(table.Rows)
			index[key] = i
			table.Rows = append(table.Rows, Row{
				Composition: append([]string(nil), l.labeled.Composition...),
				Values:      l.values,
			})
		}
		table.Rows[i].Species = append(table.Rows[i].Species, Leaf{Species: l.labeled.Species, Value: l.labeled.Value})
	}
	return table
}

func passthrough(name string, labeled []Labeled) *Table {
	table := &Table{Name: name, Levels: 1, Rows: make([]Row, len(labeled))}
	for i, l := range labeled {
		table.Rows[i] = Row{
			Composition: []string{l.Species},
			Values:      []float64{l.Value},
			Species:     []Leaf{{Species: l.Species, Value: l.Value}},
		}
	}
	return table
}

func prefixKey(composition []string, level int) string {
	return strings.Join(composition[:level+1], keySeparator)
}
