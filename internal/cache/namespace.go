// Package cache implements a two-tier (in-memory + on-disk) cache with
// namespaces, content-hash-addressed entries, per-namespace metrics, and
// single-flighted loaders.
package cache

// Namespace is the fixed enumeration of cache partitions.
type Namespace string

const (
	NamespaceSearch     Namespace = "search"
	NamespaceCorpus     Namespace = "corpus"
	NamespaceTrie       Namespace = "trie"
	NamespaceSemantic   Namespace = "semantic"
	NamespaceDictionary Namespace = "dictionary"
	NamespaceProvider   Namespace = "provider"
	NamespaceDefault    Namespace = "default"
)

var allNamespaces = []Namespace{
	NamespaceSearch, NamespaceCorpus, NamespaceTrie, NamespaceSemantic,
	NamespaceDictionary, NamespaceProvider, NamespaceDefault,
}

// Compression selects the codec applied to a namespace's payloads before
// they hit the L2 tier.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
)

// NamespaceConfig is the explicit, enumerated per-namespace configuration:
// an L1 capacity and an L2 compression codec.
type NamespaceConfig struct {
	Capacity    int // L1 max entries
	Compression Compression
}

// DefaultNamespaceConfigs returns a sane default capacity/compression per
// namespace: corpus and semantic payloads are the largest, so they default
// to gzip; search results and the small trie facade stay uncompressed for
// lower latency.
func DefaultNamespaceConfigs() map[Namespace]NamespaceConfig {
	return map[Namespace]NamespaceConfig{
		NamespaceSearch:     {Capacity: 2000, Compression: CompressionNone},
		NamespaceCorpus:     {Capacity: 200, Compression: CompressionGzip},
		NamespaceTrie:       {Capacity: 200, Compression: CompressionNone},
		NamespaceSemantic:   {Capacity: 50, Compression: CompressionGzip},
		NamespaceDictionary: {Capacity: 5000, Compression: CompressionNone},
		NamespaceProvider:   {Capacity: 5000, Compression: CompressionNone},
		NamespaceDefault:    {Capacity: 500, Compression: CompressionNone},
	}
}
