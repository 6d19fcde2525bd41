package text

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/ChrisMcGann/utca/pkg/calculate"
	"github.com/ChrisMcGann/utca/pkg/compare"
	"github.com/ChrisMcGann/utca/pkg/compose"
	"github.com/ChrisMcGann/utca/pkg/core"
)

func TestCalculation(t *testing.T) {
	sample := &core.Sample{Name: "S", Rows: []core.Row{
		{FA: core.MustParseFattyAcid("18:0"), TAG: 1, DAG1223: 1, MAG2: 1},
	}}
	var buf bytes.Buffer
	if err := NewWriter(&buf, 3, false).Calculation(calculate.Calculate(sample, calculate.Settings{})); err != nil {
		t.Fatalf("Calculation() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"# S", "DAG13.Calculated", "18:0", "1.000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCalculationNames(t *testing.T) {
	oleic := core.MustParseFattyAcid("18:1")
	oleic.Label = "Oleic"
	sample := &core.Sample{Name: "S", Rows: []core.Row{
		{FA: core.MustParseFattyAcid("18:0"), TAG: 1, DAG1223: 1, MAG2: 1},
		{FA: oleic, TAG: 1, DAG1223: 1, MAG2: 1},
	}}
	var buf bytes.Buffer
	if err := NewWriter(&buf, 3, false).Calculation(calculate.Calculate(sample, calculate.Settings{})); err != nil {
		t.Fatalf("Calculation() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	tests := []struct {
		line        string
		wantName    string
		wantSpecies string
	}{
		{lines[2], "18:0", "18:0"},
		{lines[3], "Oleic", "18:1Δ9"},
	}
	for _, tt := range tests {
		fields := strings.Fields(tt.line)
		if len(fields) < 3 || fields[1] != tt.wantName || fields[2] != tt.wantSpecies {
			t.Errorf("row %q: want name %q and species %q", tt.line, tt.wantName, tt.wantSpecies)
		}
	}
}

func TestComposition(t *testing.T) {
	table := &compose.Table{Name: "PO", Levels: 1, Rows: []compose.Row{{
		Composition: []string{"SUU"},
		Values:      []float64{math.NaN()},
		Species:     []compose.Leaf{{Species: "[16:0|18:1Δ9|18:1Δ9]", Value: 0.25}},
	}}}

	var plain, nested bytes.Buffer
	if err := NewWriter(&plain, 2, false).Composition(table); err != nil {
		t.Fatalf("Composition() error = %v", err)
	}
	if err := NewWriter(&nested, 2, true).Composition(table); err != nil {
		t.Fatalf("Composition() error = %v", err)
	}

	if !strings.Contains(plain.String(), "NaN") {
		t.Errorf("NaN value not rendered:\n%s", plain.String())
	}
	if strings.Contains(plain.String(), "0.25") {
		t.Errorf("species rendered without the species flag:\n%s", plain.String())
	}
	if !strings.Contains(nested.String(), "[16:0|18:1Δ9|18:1Δ9]") {
		t.Errorf("species missing:\n%s", nested.String())
	}
}

func TestComparison(t *testing.T) {
	v := 0.5
	table := &compare.Table{
		Samples: []string{"a", "b"},
		Levels:  1,
		Rows: []compare.Row{{
			Meta:        compare.Meta{Mean: 0.5, Std: math.NaN(), Var: math.NaN()},
			Composition: []string{"SSU"},
			Values:      []*float64{&v, nil},
		}},
	}

	var buf bytes.Buffer
	if err := NewWriter(&buf, 1, false).Comparison(table); err != nil {
		t.Fatalf("Comparison() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Composition0", "Mean", "SSU", "0.5", "null", "NaN"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
