package index

import (
	"strconv"

	"github.com/standardbeagle/lexicore/internal/cache"
	"github.com/standardbeagle/lexicore/internal/corpus"
	"github.com/standardbeagle/lexicore/internal/debug"
	"github.com/standardbeagle/lexicore/internal/types"
)

// Publisher runs every synchronous index builder against a corpus snapshot
// and records the results: each artifact joins its version chain in the
// VersionStore, and newly created payloads are written through the cache
// manager under their content hash. It is the piece that ties a corpus
// mutation to fresh artifact versions; the semantic builder stays on its
// separate background path (search.Engine.BuildSemanticAsync) because it
// is long-running.
type Publisher struct {
	versions *VersionStore
	cache    *cache.Manager
	config   MatcherConfig
}

// NewPublisher creates a publisher writing chains into versions and
// payloads into cacheMgr (which may be nil to skip the cache tier, e.g. in
// tests that only care about version chains).
func NewPublisher(versions *VersionStore, cacheMgr *cache.Manager, cfg MatcherConfig) *Publisher {
	return &Publisher{versions: versions, cache: cacheMgr, config: cfg}
}

// PublishAll builds and publishes the trie, signature, and search-facade
// artifacts for c. Artifacts whose content is unchanged are deduplicated
// by the version store, so calling this after a no-op mutation costs a
// hash comparison, not a new version.
func (p *Publisher) PublishAll(c *corpus.Corpus) error {
	trieID, err := p.publish(cache.NamespaceTrie, func() (string, uint64, []byte, error) {
		return BuildTrieIndex(c)
	}, nil)
	if err != nil {
		return err
	}

	if _, err := p.publish(cache.NamespaceTrie, func() (string, uint64, []byte, error) {
		return BuildSignatureIndex(c)
	}, nil); err != nil {
		return err
	}

	semanticID, _ := p.latestSemantic(c.ID)
	deps := []string{resourceID("trie", c.ID)}
	if semanticID != 0 {
		deps = append(deps, resourceID("semantic", c.ID))
	}
	_, err = p.publish(cache.NamespaceSearch, func() (string, uint64, []byte, error) {
		return BuildSearchIndex(c, trieID, semanticID, p.config)
	}, deps)
	return err
}

// PublishSemantic records a completed background semantic build, then
// refreshes the facade so it binds the new artifact id.
func (p *Publisher) PublishSemantic(c *corpus.Corpus, rid string, dataHash uint64, payload []byte) error {
	if _, _, err := p.versions.Publish(rid, dataHash, payload, nil); err != nil {
		return err
	}
	p.writeThrough(cache.NamespaceSemantic, dataHash, payload)
	return p.PublishAll(c)
}

func (p *Publisher) publish(ns cache.Namespace, build func() (string, uint64, []byte, error), deps []string) (types.ArtifactID, error) {
	rid, hash, payload, err := build()
	if err != nil {
		return 0, err
	}
	id, created, err := p.versions.Publish(rid, hash, payload, deps)
	if err != nil {
		return 0, err
	}
	if created {
		p.writeThrough(ns, hash, payload)
		debug.LogIndex("published %s v%d (%d bytes)\n", rid, p.versionOf(id), len(payload))
	}
	return id, nil
}

func (p *Publisher) writeThrough(ns cache.Namespace, hash uint64, payload []byte) {
	if p.cache == nil {
		return
	}
	key := strconv.FormatUint(hash, 16)
	if err := p.cache.Set(ns, key, payload); err != nil {
		debug.LogIndex("cache write for artifact %s/%s failed: %v\n", ns, key, err)
	}
}

func (p *Publisher) versionOf(id types.ArtifactID) int {
	_, info, ok := p.versions.Get(id)
	if !ok {
		return 0
	}
	return info.Version
}

func (p *Publisher) latestSemantic(id types.CorpusID) (types.ArtifactID, bool) {
	aid, _, _, ok := p.versions.Latest(resourceID("semantic", id))
	return aid, ok
}
