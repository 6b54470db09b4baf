package cache

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
)

// l2Tier is the disk-backed cache tier: a directory-per-namespace,
// content-hash-addressed file store.
type l2Tier struct {
	root    string
	configs map[Namespace]NamespaceConfig
}

func newL2Tier(root string, configs map[Namespace]NamespaceConfig) (*l2Tier, error) {
	for ns := range configs {
		if err := os.MkdirAll(filepath.Join(root, string(ns)), 0755); err != nil {
			return nil, err
		}
	}
	return &l2Tier{root: root, configs: configs}, nil
}

// contentKey returns the L2 filename for a (namespace, key): the xxhash of
// the logical key, hex-encoded, so lookups never depend on key characters
// being filesystem-safe and entries are naturally content-addressed once
// the cache key itself is a content hash (as index artifact ids are).
func contentKey(key string) string {
	h := xxhash.Sum64String(key)
	return strconv.FormatUint(h, 16)
}

func (t *l2Tier) path(ns Namespace, key string) string {
	return filepath.Join(t.root, string(ns), contentKey(key))
}

func (t *l2Tier) get(ns Namespace, key string) ([]byte, bool) {
	data, err := os.ReadFile(t.path(ns, key))
	if err != nil {
		return nil, false
	}
	if t.configs[ns].Compression == CompressionGzip {
		decoded, err := gunzip(data)
		if err != nil {
			return nil, false
		}
		return decoded, true
	}
	return data, true
}

func (t *l2Tier) set(ns Namespace, key string, value []byte) error {
	payload := value
	if t.configs[ns].Compression == CompressionGzip {
		compressed, err := gzipBytes(value)
		if err != nil {
			return err
		}
		payload = compressed
	}
	tmp := t.path(ns, key) + ".tmp"
	if err := os.WriteFile(tmp, payload, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, t.path(ns, key))
}

func (t *l2Tier) invalidate(ns Namespace, key string) {
	_ = os.Remove(t.path(ns, key))
}

func (t *l2Tier) clear(ns Namespace) {
	matches, _ := doublestar.Glob(os.DirFS(t.root), string(ns)+"/*")
	for _, m := range matches {
		_ = os.Remove(filepath.Join(t.root, m))
	}
}

// size returns the number of entries and total bytes on disk for ns.
func (t *l2Tier) size(ns Namespace) (entries int, bytesTotal int64) {
	matches, _ := doublestar.Glob(os.DirFS(t.root), string(ns)+"/*")
	for _, m := range matches {
		info, err := os.Stat(filepath.Join(t.root, m))
		if err != nil {
			continue
		}
		entries++
		bytesTotal += info.Size()
	}
	return
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
