package cache

import (
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasherStable(t *testing.T) {
	a := NewHasher("stage").String("olive").Float64(0.25).Int8s([]int8{9, 12}).Key()
	b := NewHasher("stage").String("olive").Float64(0.25).Int8s([]int8{9, 12}).Key()
	assert.Equal(t, a, b)
	assert.Len(t, a.String(), 16)
}

func TestHasherDistinguishes(t *testing.T) {
	base := NewHasher("stage").String("ab").String("c").Key()

	assert.NotEqual(t, base, NewHasher("stage").String("a").String("bc").Key(), "concatenation must not collide")
	assert.NotEqual(t, base, NewHasher("other").String("ab").String("c").Key(), "domain must be part of the key")
	assert.NotEqual(t,
		NewHasher("s").Int8s([]int8{9}).Int8s(nil).Key(),
		NewHasher("s").Int8s(nil).Int8s([]int8{9}).Key(),
	)
}

func TestHasherFloatCanonical(t *testing.T) {
	assert.Equal(t, NewHasher("f").Float64(0).Key(), NewHasher("f").Float64(math.Copysign(0, -1)).Key())
	assert.Equal(t, NewHasher("f").Float64(math.NaN()).Key(), NewHasher("f").Float64(-math.NaN()).Key())
	assert.NotEqual(t, NewHasher("f").Float64(0.1).Key(), NewHasher("f").Float64(0.2).Key())
}

func TestMemoHitMiss(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	memo, err := NewMemo[int]("test", 4, metrics, nil)
	require.NoError(t, err)

	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	key := NewHasher("test").String("a").Key()
	v, err := memo.Get(key, compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = memo.Get(key, compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, memo.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Hits.WithLabelValues("test")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Misses.WithLabelValues("test")))
}

func TestMemoErrorNotStored(t *testing.T) {
	memo, err := NewMemo[string]("err", 0, nil, nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = memo.Get(1, func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, memo.Len())

	v, err := memo.Get(1, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestMemoEviction(t *testing.T) {
	metrics, err := NewMetrics(nil)
	require.NoError(t, err)
	memo, err := NewMemo[int]("evict", 2, metrics, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := memo.Get(Key(i), func() (int, error) { return i, nil })
		require.NoError(t, err)
	}

	assert.Equal(t, 2, memo.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Evictions.WithLabelValues("evict")))

	memo.Purge()
	assert.Equal(t, 0, memo.Len())
}

func TestNewMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}
