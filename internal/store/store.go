// Package store specifies the persistence collaborator: a document store
// that persists versioned records. The core depends only on the
// DocumentStore interface and its narrower KVStore sub-interface, which
// internal/cache.Manager already satisfies, so no particular schema or
// backend is baked in.
package store

import (
	"time"

	"github.com/standardbeagle/lexicore/internal/cache"
	"github.com/standardbeagle/lexicore/internal/errs"
)

// VersionInfo is the wire shape for a persisted record's version
// metadata.
type VersionInfo struct {
	Version      int
	DataHash     uint64
	IsLatest     bool
	Supersedes   uint64
	SupersededBy uint64
	CreatedAt    time.Time
	Dependencies []string
}

// Record is one persisted versioned resource: a corpus snapshot, an index
// artifact, or any other content internal/index.VersionStore tracks,
// carrying either an inline payload or a location reference to the L2
// cache tier that actually holds the bytes.
type Record struct {
	ResourceID     string
	ResourceType   string
	Namespace      string
	VersionInfo    VersionInfo
	ContentInline   []byte // set when small enough to store directly
	ContentLocation string // set instead of ContentInline for large payloads
}

// KVStore is the narrower byte-oriented interface DocumentStore embeds;
// internal/cache.Manager's Get/Set/Invalidate already satisfy this shape
// for the disk tier, so a DocumentStore can be built directly on a cache
// namespace rather than a second storage engine.
type KVStore interface {
	Get(namespace cache.Namespace, key string) ([]byte, bool)
	Set(namespace cache.Namespace, key string, value []byte) error
	Invalidate(namespace cache.Namespace, key string)
}

// DocumentStore persists VersionedRecords keyed by resource id, on top of
// a KVStore. Exactly one version per resource_id is_latest at rest;
// enforcing that invariant is internal/index.VersionStore's job, not
// this package's — DocumentStore is pure storage.
type DocumentStore interface {
	KVStore
	PutRecord(rec Record) error
	GetRecord(resourceID string) (Record, error)
}

// kvNamespace is the fixed cache namespace documents are persisted under.
const kvNamespace = cache.NamespaceDictionary

// CacheBackedStore implements DocumentStore directly on top of a KVStore
// (in practice internal/cache.Manager), encoding records with the caller-
// supplied codec rather than inventing a second on-disk format.
type CacheBackedStore struct {
	kv    KVStore
	codec Codec
}

// Codec encodes/decodes a Record to/from bytes. encoding/json satisfies
// this trivially; it is an interface so a future binary codec can be
// swapped in without touching CacheBackedStore.
type Codec interface {
	Encode(Record) ([]byte, error)
	Decode([]byte) (Record, error)
}

// NewCacheBackedStore builds a DocumentStore over kv using codec.
func NewCacheBackedStore(kv KVStore, codec Codec) *CacheBackedStore {
	return &CacheBackedStore{kv: kv, codec: codec}
}

func (s *CacheBackedStore) Get(namespace cache.Namespace, key string) ([]byte, bool) {
	return s.kv.Get(namespace, key)
}

func (s *CacheBackedStore) Set(namespace cache.Namespace, key string, value []byte) error {
	return s.kv.Set(namespace, key, value)
}

func (s *CacheBackedStore) Invalidate(namespace cache.Namespace, key string) {
	s.kv.Invalidate(namespace, key)
}

func (s *CacheBackedStore) PutRecord(rec Record) error {
	payload, err := s.codec.Encode(rec)
	if err != nil {
		return err
	}
	return s.kv.Set(kvNamespace, rec.ResourceID, payload)
}

func (s *CacheBackedStore) GetRecord(resourceID string) (Record, error) {
	payload, ok := s.kv.Get(kvNamespace, resourceID)
	if !ok {
		return Record{}, errs.NewNotFound("record", resourceID)
	}
	return s.codec.Decode(payload)
}
