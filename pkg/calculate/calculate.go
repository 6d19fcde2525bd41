// Package calculate derives the experimental, theoretical and calculated
// acylglycerol columns of a sample.
package calculate

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ChrisMcGann/utca/pkg/core"
)

// Settings is the subset of core.Settings the calculator depends on.
type Settings struct {
	Fraction   core.Fraction
	From       core.From
	Signedness core.Signedness
}

// SettingsOf extracts the calculation settings.
func SettingsOf(s core.Settings) Settings {
	return Settings{Fraction: s.Fraction, From: s.From, Signedness: s.Signedness}
}

// Calculate produces the derived table of a sample. Every derived column is
// normalized to sum to 1; a column whose sum is not finite and positive
// becomes NaN. The sample is not modified.
func Calculate(sample *core.Sample, settings Settings) *Table {
	n := sample.Len()
	table := &Table{Name: sample.Name, Rows: make([]Row, n)}
	if n == 0 {
		return table
	}

	tag := make([]float64, n)
	dag1223 := make([]float64, n)
	mag2 := make([]float64, n)
	masses := make([]float64, n)
	for i, row := range sample.Rows {
		tag[i], dag1223[i], mag2[i] = row.TAG, row.DAG1223, row.MAG2
		masses[i] = row.FA.Mass()
	}

	for _, column := range [][]float64{tag, dag1223, mag2} {
		applyFraction(column, masses, settings.Fraction)
		Normalize(column)
	}

	theoretical := make([]Theoretical, n)
	for i := range theoretical {
		theoretical[i] = Theoretize(tag[i], dag1223[i], mag2[i])
	}
	columns := theoreticalColumns(theoretical)
	for _, column := range columns {
		if settings.Signedness == core.Unsigned {
			Clip(column)
		}
		Normalize(column)
	}

	for i, row := range sample.Rows {
		out := Row{
			Input: row,
			Experimental: Experimental{
				TAG:     tag[i],
				DAG1223: dag1223[i],
				MAG2:    mag2[i],
			},
			Theoretical: Theoretical{
				TAG:          columns[0][i],
				DAG1223:      columns[1][i],
				MAG2:         columns[2][i],
				DAG13DAG1223: columns[3][i],
				DAG13MAG2:    columns[4][i],
			},
		}
		out.Calculated.MAG2 = out.Experimental.MAG2
		if settings.From == core.FromDag1223 {
			out.Calculated.DAG13 = out.Theoretical.DAG13DAG1223
		} else {
			out.Calculated.DAG13 = out.Theoretical.DAG13MAG2
		}
		table.Rows[i] = out
	}

	return table
}

// Theoretize applies the mass balance of partial deacylation to one row of
// experimental values.
func Theoretize(tag, dag1223, mag2 float64) Theoretical {
	return Theoretical{
		TAG:          (4*dag1223 - mag2) / 3,
		DAG1223:      (3*tag + mag2) / 4,
		MAG2:         4*dag1223 - 3*tag,
		DAG13DAG1223: 3*tag - 2*dag1223,
		DAG13MAG2:    (3*tag - mag2) / 2,
	}
}

// Normalize scales values in place so they sum to 1. When the sum is not
// finite and positive every value becomes NaN.
func Normalize(values []float64) {
	if len(values) == 0 {
		return
	}
	sum := floats.Sum(values)
	if !(sum > 0) || math.IsInf(sum, 0) {
		for i := range values {
			values[i] = math.NaN()
		}
		return
	}
	floats.Scale(1/sum, values)
}

// Clip replaces negative values with 0 in place. NaN is kept.
func Clip(values []float64) {
	for i, v := range values {
		if v < 0 {
			values[i] = 0
		}
	}
}

func applyFraction(values, masses []float64, fraction core.Fraction) {
	switch fraction {
	case core.ToMole:
		floats.Div(values, masses)
	case core.ToMass:
		floats.Mul(values, masses)
	case core.Pchelkin:
		weighted := make([]float64, len(values))
		floats.MulTo(weighted, values, masses)
		denominator := floats.Sum(weighted) / 10
		for i := range values {
			values[i] /= denominator
		}
	}
}

func theoreticalColumns(rows []Theoretical) [][]float64 {
	columns := make([][]float64, 5)
	for c := range columns {
		columns[c] = make([]float64, len(rows))
	}
	for i, t := range rows {
		columns[0][i] = t.TAG
		columns[1][i] = t.DAG1223
		columns[2][i] = t.MAG2
		columns[3][i] = t.DAG13DAG1223
		columns[4][i] = t.DAG13MAG2
	}
	return columns
}
