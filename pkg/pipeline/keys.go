package pipeline

import (
	"github.com/ChrisMcGann/utca/pkg/cache"
	"github.com/ChrisMcGann/utca/pkg/calculate"
	"github.com/ChrisMcGann/utca/pkg/compare"
	"github.com/ChrisMcGann/utca/pkg/compose"
	"github.com/ChrisMcGann/utca/pkg/core"
)

func writeSample(h *cache.Hasher, sample *core.Sample) {
	h.String(sample.Name).Int(len(sample.Rows))
	for _, row := range sample.Rows {
		h.String(row.FA.Label).
			Int(int(row.FA.Carbons)).
			Int8s(row.FA.Doubles).
			Int8s(row.FA.Triples).
			Float64(row.TAG).
			Float64(row.DAG1223).
			Float64(row.MAG2)
	}
}

func writeCalculation(h *cache.Hasher, settings calculate.Settings) {
	h.Int(int(settings.Fraction)).Int(int(settings.From)).Int(int(settings.Signedness))
}

func writeComposition(h *cache.Hasher, settings compose.Settings) {
	h.Float64(float64(settings.Adduct)).
		Uint64(uint64(settings.Precision)).
		Int(len(settings.Groups))
	for _, g := range settings.Groups {
		h.Int(int(g.Scope)).Int(int(g.Stereospecificity)).Float64(g.Filter.Value)
	}
	h.Int(int(settings.Sort)).Int(int(settings.Order))
}

func writeComparison(h *cache.Hasher, settings compare.Settings) {
	h.Int(int(settings.Join)).
		Uint64(uint64(settings.DDOF)).
		Int(int(settings.Sort)).
		Int(int(settings.Order)).
		Int(settings.Levels)
}

// CalculationKey identifies a calculator invocation.
func CalculationKey(sample *core.Sample, settings calculate.Settings) cache.Key {
	h := cache.NewHasher(stageCalculation)
	writeSample(h, sample)
	writeCalculation(h, settings)
	return h.Key()
}

// CompositionKey identifies a composition invocation. It covers the
// calculation settings since the composition is computed from their output.
func CompositionKey(sample *core.Sample, settings core.Settings) cache.Key {
	h := cache.NewHasher(stageComposition)
	writeSample(h, sample)
	writeCalculation(h, calculate.SettingsOf(settings))
	writeComposition(h, compose.SettingsOf(settings))
	return h.Key()
}

// ComparisonKey identifies a comparison invocation over ordered samples.
func ComparisonKey(samples []*core.Sample, settings core.Settings) cache.Key {
	h := cache.NewHasher(stageComparison)
	h.Int(len(samples))
	for _, sample := range samples {
		writeSample(h, sample)
	}
	writeCalculation(h, calculate.SettingsOf(settings))
	writeComposition(h, compose.SettingsOf(settings))
	writeComparison(h, compare.SettingsOf(settings))
	return h.Key()
}
