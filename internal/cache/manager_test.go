package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), DefaultNamespaceConfigs())
	require.NoError(t, err)
	return m
}

func TestSetGet_RoundTrip(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Set(NamespaceCorpus, "fruits", []byte("hello")))

	v, ok := m.Get(NamespaceCorpus, "fruits")
	require.True(t, ok)
	assert.Equal(t, "hello", string(v))
}

func TestGet_MissRecordsMetric(t *testing.T) {
	m := newTestManager(t)
	_, ok := m.Get(NamespaceCorpus, "nope")
	assert.False(t, ok)

	stats := m.GetStats()[NamespaceCorpus]
	assert.Equal(t, int64(1), stats.Misses)
}

func TestGet_L2HitPromotesToL1(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.l2.set(NamespaceCorpus, "k", []byte("v")))

	_, ok := m.l1.get(NamespaceCorpus, "k")
	require.False(t, ok, "precondition: not yet in L1")

	v, ok := m.Get(NamespaceCorpus, "k")
	require.True(t, ok)
	assert.Equal(t, "v", string(v))

	_, ok = m.l1.get(NamespaceCorpus, "k")
	assert.True(t, ok, "L2 hit should promote into L1")
}

func TestInvalidate_RemovesFromBothTiers(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Set(NamespaceCorpus, "k", []byte("v")))
	m.Invalidate(NamespaceCorpus, "k")

	_, ok := m.Get(NamespaceCorpus, "k")
	assert.False(t, ok)
}

func TestClear_RemovesAllEntriesInNamespace(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Set(NamespaceCorpus, "a", []byte("1")))
	require.NoError(t, m.Set(NamespaceCorpus, "b", []byte("2")))

	m.Clear(NamespaceCorpus)

	_, ok := m.Get(NamespaceCorpus, "a")
	assert.False(t, ok)
	_, ok = m.Get(NamespaceCorpus, "b")
	assert.False(t, ok)
}

func TestGetOrLoad_SingleFlightsConcurrentMisses(t *testing.T) {
	m := newTestManager(t)
	var calls int64

	var wg sync.WaitGroup
	results := make([][]byte, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := m.GetOrLoad(NamespaceSearch, "q", func() ([]byte, error) {
				atomic.AddInt64(&calls, 1)
				return []byte("computed"), nil
			})
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls), "loader must run exactly once")
	for _, r := range results {
		assert.Equal(t, "computed", string(r))
	}
}

func TestGetOrLoad_PropagatesLoaderError(t *testing.T) {
	m := newTestManager(t)
	_, err := m.GetOrLoad(NamespaceSearch, "bad", func() ([]byte, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)
}

func TestCompression_RoundTripsThroughL2(t *testing.T) {
	m := newTestManager(t)
	payload := []byte("the quick brown fox jumps over the lazy dog, repeated many times for compressibility")
	require.NoError(t, m.l2.set(NamespaceCorpus, "k", payload)) // corpus namespace defaults to gzip

	got, ok := m.l2.get(NamespaceCorpus, "k")
	require.True(t, ok)
	assert.Equal(t, payload, got)
}
