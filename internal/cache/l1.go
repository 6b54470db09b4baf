package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// l1Tier is the in-memory cache tier: per-namespace locking, sub-millisecond
// lookups, and LRU eviction within a per-namespace capacity.
type l1Tier struct {
	mu     sync.RWMutex
	caches map[Namespace]*lru.Cache[string, []byte]
}

func newL1Tier(configs map[Namespace]NamespaceConfig) *l1Tier {
	t := &l1Tier{caches: make(map[Namespace]*lru.Cache[string, []byte])}
	for ns, cfg := range configs {
		cap := cfg.Capacity
		if cap <= 0 {
			cap = 100
		}
		c, _ := lru.New[string, []byte](cap) // error only on non-positive size, guarded above
		t.caches[ns] = c
	}
	return t
}

func (t *l1Tier) get(ns Namespace, key string) ([]byte, bool) {
	t.mu.RLock()
	c, ok := t.caches[ns]
	t.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return c.Get(key)
}

// set stores value and reports whether an existing entry was evicted to
// make room, so the caller can record it in the namespace's metrics.
func (t *l1Tier) set(ns Namespace, key string, value []byte) (evicted bool) {
	t.mu.RLock()
	c, ok := t.caches[ns]
	t.mu.RUnlock()
	if !ok {
		return false
	}
	return c.Add(key, value)
}

func (t *l1Tier) invalidate(ns Namespace, key string) {
	t.mu.RLock()
	c, ok := t.caches[ns]
	t.mu.RUnlock()
	if ok {
		c.Remove(key)
	}
}

func (t *l1Tier) clear(ns Namespace) {
	t.mu.RLock()
	c, ok := t.caches[ns]
	t.mu.RUnlock()
	if ok {
		c.Purge()
	}
}
