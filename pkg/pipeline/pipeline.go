// Package pipeline runs the calculation, composition and comparison stages
// through content-addressed memos.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ChrisMcGann/utca/pkg/cache"
	"github.com/ChrisMcGann/utca/pkg/calculate"
	"github.com/ChrisMcGann/utca/pkg/compare"
	"github.com/ChrisMcGann/utca/pkg/compose"
	"github.com/ChrisMcGann/utca/pkg/core"
)

const (
	stageCalculation = "calculation"
	stageComposition = "composition"
	stageComparison  = "comparison"
)

// Options configures a Pipeline.
type Options struct {
	CacheSize int                   // Entries per stage; cache.DefaultSize when <= 0
	Registry  prometheus.Registerer // Where cache metrics are registered; may be nil
	Logger    *slog.Logger          // slog.Default() when nil
}

// Pipeline memoizes every stage. It is safe for concurrent use. Returned
// tables are shared with the memo and must not be modified.
type Pipeline struct {
	calculations *cache.Memo[*calculate.Table]
	compositions *cache.Memo[*compose.Table]
	comparisons  *cache.Memo[*compare.Table]
	logger       *slog.Logger
}

// New creates a pipeline.
func New(opts Options) (*Pipeline, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics, err := cache.NewMetrics(opts.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register cache metrics: %w", err)
	}

	p := &Pipeline{logger: logger}
	if p.calculations, err = cache.NewMemo[*calculate.Table](stageCalculation, opts.CacheSize, metrics, logger); err != nil {
		return nil, err
	}
	if p.compositions, err = cache.NewMemo[*compose.Table](stageComposition, opts.CacheSize, metrics, logger); err != nil {
		return nil, err
	}
	if p.comparisons, err = cache.NewMemo[*compare.Table](stageComparison, opts.CacheSize, metrics, logger); err != nil {
		return nil, err
	}
	return p, nil
}

// Calculate returns the calculated table of a sample.
func (p *Pipeline) Calculate(sample *core.Sample, settings core.Settings) (*calculate.Table, error) {
	cs := calculate.SettingsOf(settings)
	return p.calculations.Get(CalculationKey(sample, cs), func() (*calculate.Table, error) {
		p.logger.Debug("calculating", "sample", sample.Name, "rows", sample.Len())
		return calculate.Calculate(sample, cs), nil
	})
}

// Compose returns the aggregated composition table of a sample.
func (p *Pipeline) Compose(sample *core.Sample, settings core.Settings) (*compose.Table, error) {
	return p.compositions.Get(CompositionKey(sample, settings), func() (*compose.Table, error) {
		calculated, err := p.Calculate(sample, settings)
		if err != nil {
			return nil, err
		}
		p.logger.Debug("composing", "sample", sample.Name, "groups", len(settings.Groups))
		return compose.Compose(calculated, compose.SettingsOf(settings)), nil
	})
}

// Compare returns the joined comparison of several samples, in order.
func (p *Pipeline) Compare(samples []*core.Sample, settings core.Settings) (*compare.Table, error) {
	return p.comparisons.Get(ComparisonKey(samples, settings), func() (*compare.Table, error) {
		tables := make([]*compose.Table, len(samples))
		for i, sample := range samples {
			t, err := p.Compose(sample, settings)
			if err != nil {
				return nil, fmt.Errorf("failed to compose sample %s: %w", sample.Name, err)
			}
			tables[i] = t
		}
		p.logger.Debug("comparing", "samples", len(samples), "join", settings.Join)
		return compare.Compare(tables, compare.SettingsOf(settings)), nil
	})
}
