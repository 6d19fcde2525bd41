package filter

import (
	"math"
	"testing"

	"github.com/ChrisMcGann/utca/pkg/compare"
	"github.com/ChrisMcGann/utca/pkg/compose"
)

func compositionTable(values ...float64) *compose.Table {
	table := &compose.Table{Name: "test", Levels: 1}
	for i, v := range values {
		table.Rows = append(table.Rows, compose.Row{
			Composition: []string{string(rune('A' + i))},
			Values:      []float64{v},
		})
	}
	return table
}

func labels(t *compose.Table) string {
	out := ""
	for _, r := range t.Rows {
		out += r.Composition[0]
	}
	return out
}

func TestCompositionFilter(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		values []float64
		want   string
	}{
		{"no filter", Config{}, []float64{0.5, 0.3, 0.2}, "ABC"},
		{"top 2", Config{TopN: 2}, []float64{0.2, 0.5, 0.3}, "BC"},
		{"top n larger than table", Config{TopN: 5}, []float64{0.2, 0.5}, "AB"},
		{"cutoff 50%", Config{Cutoff: 50}, []float64{0.1, 0.6, 0.35}, "BC"},
		{"hide NaN", Config{HideNaN: true}, []float64{0.4, math.NaN(), 0.6}, "AC"},
		{"top n ranks NaN last", Config{TopN: 2}, []float64{math.NaN(), 0.1, 0.2}, "BC"},
		{"cutoff then top n", Config{Cutoff: 40, TopN: 1}, []float64{0.3, 0.5, 0.1}, "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := compositionTable(tt.values...)
			got := tt.config.Composition(in)
			if l := labels(got); l != tt.want {
				t.Errorf("Composition() rows = %q, want %q", l, tt.want)
			}
			if in.Len() != len(tt.values) {
				t.Errorf("input table was modified: %d rows, want %d", in.Len(), len(tt.values))
			}
		})
	}
}

func TestComparisonFilter(t *testing.T) {
	table := &compare.Table{Samples: []string{"a", "b"}, Levels: 1}
	for i, mean := range []float64{0.6, 0.3, 0.1} {
		table.Rows = append(table.Rows, compare.Row{
			Meta:        compare.Meta{Index: uint32(i), Mean: mean},
			Composition: []string{string(rune('A' + i))},
		})
	}

	got := (&Config{TopN: 2}).Comparison(table)
	if got.Len() != 2 {
		t.Fatalf("Comparison() returned %d rows, want 2", got.Len())
	}
	if got.Rows[1].Meta.Index != 1 {
		t.Errorf("Meta.Index = %d, want 1", got.Rows[1].Meta.Index)
	}
	if len(got.Samples) != 2 {
		t.Errorf("Samples = %v, want 2 samples", got.Samples)
	}
}

func TestActive(t *testing.T) {
	if (&Config{}).Active() {
		t.Error("empty config should not be active")
	}
	if !(&Config{HideNaN: true}).Active() {
		t.Error("HideNaN config should be active")
	}
}
