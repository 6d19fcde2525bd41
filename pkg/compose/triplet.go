// Package compose enumerates stereospecific TAG triplets under the Vander Wal
// model, labels them per grouping level and aggregates them into nested
// composition tables.
package compose

import (
	"strings"

	"github.com/ChrisMcGann/utca/pkg/calculate"
	"github.com/ChrisMcGann/utca/pkg/core"
)

// Slot is one glycerol position of a triplet.
type Slot struct {
	FA    core.FattyAcid
	Index int     // Row of the fatty acid in the calculated table
	Value float64 // DAG13.Calculated at sn-1/sn-3, MAG2.Calculated at sn-2
}

// Triplet is one TAG species [SN1 SN2 SN3].
type Triplet struct {
	SN1, SN2, SN3 Slot
	Species       string
	Value         float64
}

// Slots returns the three positions in sn order.
func (t Triplet) Slots() [3]Slot {
	return [3]Slot{t.SN1, t.SN2, t.SN3}
}

// Enumerate forms the Cartesian product of the calculated table, sn-1
// outermost, with [ABC] = [A13]·[B2]·[C13]. Triplets whose value is exactly
// zero are dropped.
func Enumerate(table *calculate.Table) []Triplet {
	n := table.Len()
	sn13 := make([]Slot, n)
	sn2 := make([]Slot, n)
	for i, row := range table.Rows {
		sn13[i] = Slot{FA: row.Input.FA, Index: i, Value: row.Calculated.DAG13}
		sn2[i] = Slot{FA: row.Input.FA, Index: i, Value: row.Calculated.MAG2}
	}

	var triplets []Triplet
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				value := sn13[i].Value * sn2[j].Value * sn13[k].Value
				if value == 0 {
					continue
				}
				triplets = append(triplets, Triplet{
					SN1:     sn13[i],
					SN2:     sn2[j],
					SN3:     sn13[k],
					Species: speciesOf(sn13[i], sn2[j], sn13[k]),
					Value:   value,
				})
			}
		}
	}
	return triplets
}

func speciesOf(sn1, sn2, sn3 Slot) string {
	return bracket(sn1.FA.SpeciesLabel(), sn2.FA.SpeciesLabel(), sn3.FA.SpeciesLabel())
}

func bracket(parts ...string) string {
	return "[" + strings.Join(parts, "|") + "]"
}
