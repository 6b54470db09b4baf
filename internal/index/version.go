// Package index builds the derived index artifacts for a corpus (trie,
// signature buckets, and semantic), each published through a
// content-hash-addressed, doubly linked version chain so a corpus
// mutation can be reindexed without disturbing readers still using the
// prior version.
package index

import (
	"sync"
	"time"

	"github.com/standardbeagle/lexicore/internal/types"
)

// VersionInfo is the persisted metadata for one published artifact
// version: its position in the supersession chain, the content hash it
// was built from, and whether it is the current version for its resource.
type VersionInfo struct {
	ResourceID   string
	Version      int
	DataHash     uint64
	IsLatest     bool
	Supersedes   types.ArtifactID // zero means "no prior version"
	SupersededBy types.ArtifactID // zero means "this is latest"
	CreatedAt    time.Time
	Dependencies []string
}

// record is one published artifact: its metadata plus the opaque payload
// bytes (an encoded TrieIndex, SignatureIndex, SemanticIndex, or
// SearchIndex).
type record struct {
	id   types.ArtifactID
	info VersionInfo
	data []byte
}

// VersionStore holds every artifact version ever published, indexed both
// by artifact id and by (resourceID, dataHash) for deduplication, and
// tracks exactly one is_latest record per resource.
type VersionStore struct {
	mu       sync.RWMutex
	byID     map[types.ArtifactID]*record
	byDigest map[string]types.ArtifactID // "resourceID\x00dataHash" -> id
	latest   map[string]types.ArtifactID // resourceID -> latest artifact id
	nextID   uint64
}

// NewVersionStore creates an empty version store.
func NewVersionStore() *VersionStore {
	return &VersionStore{
		byID:     make(map[types.ArtifactID]*record),
		byDigest: make(map[string]types.ArtifactID),
		latest:   make(map[string]types.ArtifactID),
	}
}

func digestKey(resourceID string, dataHash uint64) string {
	return resourceID + "\x00" + uintToString(dataHash)
}

// Publish reuses an existing artifact with the same (resourceID, dataHash)
// if one is already published; otherwise it inserts a new is_latest
// record, supersedes the previous one, and keeps the chain doubly linked.
// Exactly one record per resourceID is is_latest at rest.
func (v *VersionStore) Publish(resourceID string, dataHash uint64, data []byte, deps []string) (types.ArtifactID, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if existingID, ok := v.byDigest[digestKey(resourceID, dataHash)]; ok {
		return existingID, false, nil // reused, not newly created
	}

	v.nextID++
	newID := types.ArtifactID(v.nextID)

	prevID, hadPrev := v.latest[resourceID]
	version := 1
	if hadPrev {
		prev := v.byID[prevID]
		version = prev.info.Version + 1
		prev.info.IsLatest = false
		prev.info.SupersededBy = newID
	}

	rec := &record{
		id: newID,
		info: VersionInfo{
			ResourceID:   resourceID,
			Version:      version,
			DataHash:     dataHash,
			IsLatest:     true,
			CreatedAt:    time.Now(),
			Dependencies: deps,
		},
		data: data,
	}
	if hadPrev {
		rec.info.Supersedes = prevID
	}

	v.byID[newID] = rec
	v.byDigest[digestKey(resourceID, dataHash)] = newID
	v.latest[resourceID] = newID

	return newID, true, nil
}

// Latest returns the is_latest artifact for a resource, if any.
func (v *VersionStore) Latest(resourceID string) (types.ArtifactID, []byte, VersionInfo, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	id, ok := v.latest[resourceID]
	if !ok {
		return 0, nil, VersionInfo{}, false
	}
	rec := v.byID[id]
	return rec.id, rec.data, rec.info, true
}

// Get returns a specific artifact version by id.
func (v *VersionStore) Get(id types.ArtifactID) ([]byte, VersionInfo, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	rec, ok := v.byID[id]
	if !ok {
		return nil, VersionInfo{}, false
	}
	return rec.data, rec.info, true
}

// Chain walks a resource's version history from oldest to newest,
// navigating the doubly linked supersedes/superseded_by sequence in both
// directions.
func (v *VersionStore) Chain(resourceID string) []VersionInfo {
	v.mu.RLock()
	defer v.mu.RUnlock()

	id, ok := v.latest[resourceID]
	if !ok {
		return nil
	}

	// Walk backward to the oldest version first.
	cur := v.byID[id]
	for cur.info.Supersedes != 0 {
		cur = v.byID[cur.info.Supersedes]
	}

	var chain []VersionInfo
	for {
		chain = append(chain, cur.info)
		if cur.info.SupersededBy == 0 {
			break
		}
		cur = v.byID[cur.info.SupersededBy]
	}
	return chain
}

// Quarantine demotes an artifact version and promotes its predecessor (if
// any) back to is_latest, used when a fatal error is detected loading a
// published artifact. If the quarantined version was the only one, the
// resource simply has no is_latest version and callers fall back to
// rebuilding or to a lower-tier matcher.
func (v *VersionStore) Quarantine(id types.ArtifactID) {
	v.mu.Lock()
	defer v.mu.Unlock()

	rec, ok := v.byID[id]
	if !ok || !rec.info.IsLatest {
		return
	}
	rec.info.IsLatest = false
	delete(v.latest, rec.info.ResourceID)

	if rec.info.Supersedes != 0 {
		if prev, ok := v.byID[rec.info.Supersedes]; ok {
			prev.info.IsLatest = true
			prev.info.SupersededBy = 0
			v.latest[rec.info.ResourceID] = prev.id
		}
	}
}

func uintToString(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for v > 0 {
		pos--
		buf[pos] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[pos:])
}
