package cache

import (
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the capacity used when a memo is created with size <= 0.
const DefaultSize = 64

// Memo is a bounded, concurrency-safe memo of stage outputs. Lookups from
// several goroutines are safe. Two callers missing the same key concurrently
// both compute; the last one to finish is stored. Stored values are shared
// and must be treated as read-only.
type Memo[V any] struct {
	stage   string
	entries *lru.Cache[Key, V]
	metrics *Metrics
	logger  *slog.Logger
}

// NewMemo creates a memo for one stage. metrics and logger may be nil.
func NewMemo[V any](stage string, size int, metrics *Metrics, logger *slog.Logger) (*Memo[V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.NewWithEvict[Key, V](size, func(Key, V) {
		metrics.evicted(stage)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s cache: %w", stage, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Memo[V]{
		stage:   stage,
		entries: entries,
		metrics: metrics,
		logger:  logger.With("stage", stage),
	}, nil
}

// Get returns the value stored under key, computing and storing it on a miss.
// Errors from compute are returned and nothing is stored.
func (m *Memo[V]) Get(key Key, compute func() (V, error)) (V, error) {
	if v, ok := m.entries.Get(key); ok {
		m.metrics.hit(m.stage)
		m.logger.Debug("cache hit", "key", key)
		return v, nil
	}
	m.metrics.miss(m.stage)

	start := time.Now()
	v, err := compute()
	elapsed := time.Since(start)
	m.metrics.observe(m.stage, elapsed)
	if err != nil {
		var zero V
		return zero, err
	}
	m.entries.Add(key, v)
	m.logger.Debug("cache store", "key", key, "elapsed", elapsed)
	return v, nil
}

// Len returns the number of stored entries.
func (m *Memo[V]) Len() int {
	return m.entries.Len()
}

// Purge removes every entry.
func (m *Memo[V]) Purge() {
	m.entries.Purge()
}
