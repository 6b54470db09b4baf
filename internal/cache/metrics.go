package cache

import "sync/atomic"

// Stats is a per-namespace hit/miss/eviction snapshot.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// namespaceMetrics holds lock-free atomic counters per namespace.
type namespaceMetrics struct {
	hits      int64
	misses    int64
	evictions int64
}

func (m *namespaceMetrics) recordHit()      { atomic.AddInt64(&m.hits, 1) }
func (m *namespaceMetrics) recordMiss()     { atomic.AddInt64(&m.misses, 1) }
func (m *namespaceMetrics) recordEviction() { atomic.AddInt64(&m.evictions, 1) }

func (m *namespaceMetrics) snapshot() Stats {
	return Stats{
		Hits:      atomic.LoadInt64(&m.hits),
		Misses:    atomic.LoadInt64(&m.misses),
		Evictions: atomic.LoadInt64(&m.evictions),
	}
}

// GetStats returns hit/miss/eviction counters for every namespace.
func (m *Manager) GetStats() map[Namespace]Stats {
	out := make(map[Namespace]Stats, len(m.metrics))
	for ns, nm := range m.metrics {
		out[ns] = nm.snapshot()
	}
	return out
}

// HitRate returns the overall hit rate across all namespaces, used by the
// REST health endpoint's cache_hit_rate field.
func (m *Manager) HitRate() float64 {
	var hits, total int64
	for _, nm := range m.metrics {
		s := nm.snapshot()
		hits += s.Hits
		total += s.Hits + s.Misses
	}
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
