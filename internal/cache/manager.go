package cache

import (
	"github.com/standardbeagle/lexicore/internal/debug"
	"golang.org/x/sync/singleflight"
)

// Loader computes the value for a cache miss. It is invoked at most once
// per (namespace, key) among concurrently-waiting callers.
type Loader func() ([]byte, error)

// Manager is the versioned cache manager: a get/set/invalidate/clear
// interface over an L1 (in-memory) and L2 (disk) tier, with per-namespace
// metrics and single-flighted loaders.
type Manager struct {
	l1      *l1Tier
	l2      *l2Tier
	metrics map[Namespace]*namespaceMetrics
	flight  singleflight.Group
}

// NewManager creates a cache manager rooted at diskRoot for its L2 tier,
// using the given per-namespace configuration (DefaultNamespaceConfigs if
// nil).
func NewManager(diskRoot string, configs map[Namespace]NamespaceConfig) (*Manager, error) {
	if configs == nil {
		configs = DefaultNamespaceConfigs()
	}
	l2, err := newL2Tier(diskRoot, configs)
	if err != nil {
		return nil, err
	}
	metrics := make(map[Namespace]*namespaceMetrics, len(configs))
	for ns := range configs {
		metrics[ns] = &namespaceMetrics{}
	}
	return &Manager{
		l1:      newL1Tier(configs),
		l2:      l2,
		metrics: metrics,
	}, nil
}

func (m *Manager) metricsFor(ns Namespace) *namespaceMetrics {
	if nm, ok := m.metrics[ns]; ok {
		return nm
	}
	// Unregistered namespace: track it anyway rather than panic, so a
	// caller that passes an ad hoc namespace string still gets metrics.
	nm := &namespaceMetrics{}
	m.metrics[ns] = nm
	return nm
}

// Get checks L1 then L2, promoting an L2 hit into L1.
func (m *Manager) Get(ns Namespace, key string) ([]byte, bool) {
	nm := m.metricsFor(ns)

	if v, ok := m.l1.get(ns, key); ok {
		nm.recordHit()
		return v, true
	}

	if v, ok := m.l2.get(ns, key); ok {
		nm.recordHit()
		if m.l1.set(ns, key, v) {
			nm.recordEviction()
		}
		return v, true
	}

	nm.recordMiss()
	return nil, false
}

// Set writes through to both tiers.
func (m *Manager) Set(ns Namespace, key string, value []byte) error {
	if m.l1.set(ns, key, value) {
		m.metricsFor(ns).recordEviction()
	}
	return m.l2.set(ns, key, value)
}

// Invalidate removes a single key from both tiers.
func (m *Manager) Invalidate(ns Namespace, key string) {
	m.l1.invalidate(ns, key)
	m.l2.invalidate(ns, key)
}

// Clear removes every entry in a namespace from both tiers.
func (m *Manager) Clear(ns Namespace) {
	m.l1.clear(ns)
	m.l2.clear(ns)
}

// GetOrLoad checks both tiers, and on a miss invokes loader exactly once
// across any concurrently-waiting callers for the same (namespace, key).
func (m *Manager) GetOrLoad(ns Namespace, key string, loader Loader) ([]byte, error) {
	if v, ok := m.Get(ns, key); ok {
		return v, nil
	}

	flightKey := string(ns) + "\x00" + key
	v, err, shared := m.flight.Do(flightKey, func() (interface{}, error) {
		data, err := loader()
		if err != nil {
			return nil, err
		}
		if err := m.Set(ns, key, data); err != nil {
			debug.LogCache("failed to persist loaded value for %s/%s: %v\n", ns, key, err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		debug.LogCache("de-duplicated concurrent load for %s/%s\n", ns, key)
	}
	return v.([]byte), nil
}

// Size reports the disk-tier entry count and byte total for a namespace.
func (m *Manager) Size(ns Namespace) (entries int, bytesTotal int64) {
	return m.l2.size(ns)
}
