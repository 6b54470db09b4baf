package store

import (
	"testing"
	"time"

	"github.com/standardbeagle/lexicore/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheBackedStore_PutGetRecordRoundTrip(t *testing.T) {
	mgr, err := cache.NewManager(t.TempDir(), cache.DefaultNamespaceConfigs())
	require.NoError(t, err)

	s := NewCacheBackedStore(mgr, JSONCodec{})
	rec := Record{
		ResourceID:   "word:apple",
		ResourceType: "dictionary_entry",
		Namespace:    string(cache.NamespaceDictionary),
		VersionInfo: VersionInfo{
			Version:  1,
			IsLatest: true,
			DataHash: 12345,
			CreatedAt: time.Now().Truncate(time.Second),
		},
		ContentInline: []byte(`{"senses":["a fruit"]}`),
	}

	require.NoError(t, s.PutRecord(rec))

	got, err := s.GetRecord("word:apple")
	require.NoError(t, err)
	assert.Equal(t, rec.ResourceID, got.ResourceID)
	assert.Equal(t, rec.VersionInfo.DataHash, got.VersionInfo.DataHash)
	assert.Equal(t, rec.ContentInline, got.ContentInline)
}

func TestCacheBackedStore_GetRecordMissingIsNotFound(t *testing.T) {
	mgr, err := cache.NewManager(t.TempDir(), cache.DefaultNamespaceConfigs())
	require.NoError(t, err)

	s := NewCacheBackedStore(mgr, JSONCodec{})
	_, err = s.GetRecord("nonexistent")
	require.Error(t, err)
}

func TestCacheBackedStore_KVStorePassthrough(t *testing.T) {
	mgr, err := cache.NewManager(t.TempDir(), cache.DefaultNamespaceConfigs())
	require.NoError(t, err)

	s := NewCacheBackedStore(mgr, JSONCodec{})
	require.NoError(t, s.Set(cache.NamespaceProvider, "key", []byte("value")))

	v, ok := s.Get(cache.NamespaceProvider, "key")
	require.True(t, ok)
	assert.Equal(t, []byte("value"), v)

	s.Invalidate(cache.NamespaceProvider, "key")
	_, ok = s.Get(cache.NamespaceProvider, "key")
	assert.False(t, ok)
}

func TestJSONCodec_EncodeDecodeRoundTrip(t *testing.T) {
	rec := Record{ResourceID: "id", ResourceType: "type", VersionInfo: VersionInfo{Version: 2}}
	data, err := JSONCodec{}.Encode(rec)
	require.NoError(t, err)

	decoded, err := JSONCodec{}.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, rec, decoded)
}
