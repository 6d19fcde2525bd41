package compose

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/utca/pkg/calculate"
	"github.com/ChrisMcGann/utca/pkg/core"
)

const tolerance = 1e-12

// calculated builds a calculator output directly from per-row DAG13 and MAG2
// values, bypassing the mass balance.
func calculated(name string, fas []string, dag13, mag2 []float64) *calculate.Table {
	table := &calculate.Table{Name: name, Rows: make([]calculate.Row, len(fas))}
	for i, fa := range fas {
		table.Rows[i].Input.FA = core.MustParseFattyAcid(fa)
		table.Rows[i].Calculated = calculate.Calculated{MAG2: mag2[i], DAG13: dag13[i]}
	}
	return table
}

func palmiticOleic() *calculate.Table {
	sample := &core.Sample{Name: "PO", Rows: []core.Row{
		{FA: core.MustParseFattyAcid("16:0"), TAG: 0.4, DAG1223: 0.3, MAG2: 0.2},
		{FA: core.MustParseFattyAcid("18:1"), TAG: 0.6, DAG1223: 0.7, MAG2: 0.8},
	}}
	return calculate.Calculate(sample, calculate.SettingsOf(core.DefaultSettings()))
}

func settingsWith(groups ...core.Group) Settings {
	s := SettingsOf(core.DefaultSettings())
	s.Groups = groups
	return s
}

func TestEnumerateSkipsZeroTriplets(t *testing.T) {
	table := calculated("z", []string{"16:0", "18:1", "18:2"}, []float64{0.5, 0.5, 0}, []float64{0.5, 0.5, 0})

	triplets := Enumerate(table)
	require.Len(t, triplets, 8)

	sum := 0.0
	for _, tr := range triplets {
		assert.NotZero(t, tr.Value)
		sum += tr.Value
	}
	assert.InDelta(t, 1.0, sum, tolerance)
}

func TestEnumerateOrder(t *testing.T) {
	table := calculated("o", []string{"16:0", "18:1"}, []float64{0.5, 0.5}, []float64{0.5, 0.5})

	triplets := Enumerate(table)
	require.Len(t, triplets, 8)
	assert.Equal(t, "[16:0|16:0|16:0]", triplets[0].Species)
	assert.Equal(t, "[16:0|16:0|18:1Δ9]", triplets[1].Species)
	assert.Equal(t, "[16:0|18:1Δ9|16:0]", triplets[2].Species)
	assert.Equal(t, "[18:1Δ9|16:0|16:0]", triplets[4].Species)
	assert.Equal(t, 1, triplets[4].SN1.Index)
}

func TestSingleFattyAcid(t *testing.T) {
	sample := &core.Sample{Name: "S", Rows: []core.Row{
		{FA: core.MustParseFattyAcid("18:0"), TAG: 1, DAG1223: 1, MAG2: 1},
	}}
	out := Compose(calculate.Calculate(sample, calculate.SettingsOf(core.DefaultSettings())), settingsWith())

	assert.Equal(t, 1, out.Levels)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, []string{"[18:0|18:0|18:0]"}, out.Rows[0].Composition)
	assert.Equal(t, 1.0, out.Rows[0].Value())
	assert.Equal(t, 1, out.Leaves())
}

func TestComposeType(t *testing.T) {
	out := Compose(palmiticOleic(), settingsWith(core.Group{Scope: core.ScopeType, Stereospecificity: core.NonStereospecific}))

	require.Equal(t, 4, out.Len())
	want := []struct {
		label string
		value float64
	}{
		{"SUU", 0.45},
		{"SSU", 0.3},
		{"UUU", 0.2},
		{"SSS", 0.05},
	}
	for i, w := range want {
		assert.Equal(t, []string{w.label}, out.Rows[i].Composition)
		assert.InDelta(t, w.value, out.Rows[i].Value(), tolerance)
	}
	assert.InDelta(t, 1.0, out.Total(), tolerance)
	assert.Equal(t, 8, out.Leaves())
}

func TestComposeNestedFilter(t *testing.T) {
	table := calculated("POL", []string{"16:0", "18:1", "18:2"}, []float64{0.5, 0.4, 0.1}, []float64{0.1, 0.6, 0.3})
	out := Compose(table, settingsWith(
		core.Group{Scope: core.ScopeMass, Stereospecificity: core.Positional},
		core.Group{Scope: core.ScopeSpecies, Stereospecificity: core.Stereo, Filter: core.Filter{Value: 0.01}},
	))

	assert.Equal(t, 2, out.Levels)
	assert.Equal(t, 20, out.Leaves())
	require.Equal(t, 20, out.Len())

	outer := make(map[string]float64)
	for _, r := range out.Rows {
		require.Len(t, r.Species, 1)
		assert.GreaterOrEqual(t, r.Values[1], 0.01)
		assert.GreaterOrEqual(t, r.Values[0], r.Values[1])
		assert.Equal(t, r.Species[0].Species, r.Composition[1])
		outer[r.Composition[0]] = r.Values[0]
	}

	// Outer buckets are summed before the inner filter drops species. Buckets
	// left without species ([L|P|L], [L|O|L], [L|L|L], [P|P|L], [L|P|O])
	// disappear along with their 0.028.
	assert.Len(t, outer, 13)
	sum := 0.0
	for _, v := range outer {
		sum += v
	}
	assert.InDelta(t, 0.972, sum, tolerance)
}

func TestAggregateConservation(t *testing.T) {
	table := calculated("PSOL", []string{"16:0", "18:0", "18:1", "18:2"}, []float64{0.2, 0.1, 0.5, 0.2}, []float64{0.05, 0.05, 0.6, 0.3})
	groups := []core.Group{
		{Scope: core.ScopeEcn, Stereospecificity: core.NonStereospecific},
		{Scope: core.ScopeUnsaturation, Stereospecificity: core.Positional},
		{Scope: core.ScopeSpecies, Stereospecificity: core.NonStereospecific},
	}
	out := Compose(table, settingsWith(groups...))

	assert.Equal(t, 3, out.Levels)
	assert.Equal(t, 64, out.Leaves())
	assert.InDelta(t, 1.0, out.Total(), 1e-9)

	for _, r := range out.Rows {
		leaves := 0.0
		for _, l := range r.Species {
			leaves += l.Value
		}
		assert.InDelta(t, r.Values[2], leaves, 1e-12)
		assert.GreaterOrEqual(t, r.Values[0]+1e-12, r.Values[1])
		assert.GreaterOrEqual(t, r.Values[1]+1e-12, r.Values[2])
	}
}

func TestAggregateOuterFilter(t *testing.T) {
	out := Compose(palmiticOleic(), settingsWith(core.Group{
		Scope:             core.ScopeType,
		Stereospecificity: core.NonStereospecific,
		Filter:            core.Filter{Value: 0.25},
	}))

	require.Equal(t, 2, out.Len())
	assert.Equal(t, []string{"SUU"}, out.Rows[0].Composition)
	assert.Equal(t, []string{"SSU"}, out.Rows[1].Composition)
}

func TestAggregateKeepsNaN(t *testing.T) {
	labeled := []Labeled{
		{Composition: []string{"A"}, Species: "a", Value: math.NaN()},
		{Composition: []string{"B"}, Species: "b", Value: 0.5},
	}
	out := Aggregate("nan", labeled, []core.Group{{Filter: core.Filter{Value: 0.1}}})

	require.Equal(t, 2, out.Len())
	assert.True(t, math.IsNaN(out.Rows[0].Value()))
}

func TestTableSort(t *testing.T) {
	rows := func() []Row {
		return []Row{
			{Composition: []string{"b"}, Values: []float64{0.2}},
			{Composition: []string{"c"}, Values: []float64{math.NaN()}},
			{Composition: []string{"a"}, Values: []float64{0.5}},
			{Composition: []string{"d"}, Values: []float64{0.2}},
		}
	}
	keys := func(t *Table) []string {
		out := make([]string, len(t.Rows))
		for i, r := range t.Rows {
			out[i] = r.Composition[0]
		}
		return out
	}

	tests := []struct {
		name  string
		by    core.SortBy
		order core.Order
		want  []string
	}{
		{"value descending nulls last", core.SortByValue, core.Descending, []string{"a", "b", "d", "c"}},
		{"value ascending nulls first", core.SortByValue, core.Ascending, []string{"c", "b", "d", "a"}},
		{"key ascending", core.SortByKey, core.Ascending, []string{"a", "b", "c", "d"}},
		{"key descending", core.SortByKey, core.Descending, []string{"d", "c", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &Table{Levels: 1, Rows: rows()}
			table.Sort(tt.by, tt.order)
			assert.Equal(t, tt.want, keys(table))
		})
	}
}

func TestCompareKeys(t *testing.T) {
	assert.Equal(t, 0, CompareKeys([]string{"a", "b"}, []string{"a", "b"}))
	assert.Equal(t, -1, CompareKeys([]string{"a", "b"}, []string{"a", "c"}))
	assert.Equal(t, 1, CompareKeys([]string{"b"}, []string{"a", "z"}))
	assert.Equal(t, -1, CompareKeys([]string{"a"}, []string{"a", "a"}))
}
