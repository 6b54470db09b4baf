package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL reads a ".lexicore.kdl" file at path and parses it into a
// Config. A missing file returns (nil, nil) so the caller falls back to
// Default() rather than treating absence as an error.
func LoadKDL(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return parseKDL(content)
}

// parseKDL walks the top-level "server", "cache", "semantic", "search",
// and "corpus" nodes, one node per config section.
func parseKDL(content []byte) (*Config, error) {
	doc, err := kdl.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	// Parse on top of the defaults rather than a zero Config: a bool like
	// semantic.enabled has no "unset" sentinel, so a file that omits the
	// node must leave the default in place instead of zeroing it.
	cfg := Default()
	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "server":
			for _, cn := range n.Children {
				assignSimpleString(cn, "addr", func(v string) { cfg.Server.Addr = v })
			}
		case "cache":
			for _, cn := range n.Children {
				assignSimpleString(cn, "disk_root", func(v string) { cfg.Cache.DiskRoot = v })
			}
		case "semantic":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "enabled":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Semantic.Enabled = b
					}
				case "embed_dim":
					if i, ok := firstIntArg(cn); ok {
						cfg.Semantic.EmbedDim = i
					}
				case "worker_shards":
					if i, ok := firstIntArg(cn); ok {
						cfg.Semantic.WorkerShards = i
					}
				}
			}
		case "search":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "default_max_results":
					if i, ok := firstIntArg(cn); ok {
						cfg.Search.DefaultMaxResults = i
					}
				case "default_min_score":
					if f, ok := firstFloatArg(cn); ok {
						cfg.Search.DefaultMinScore = f
					}
				case "default_deadline_ms":
					if i, ok := firstIntArg(cn); ok {
						cfg.Search.DefaultDeadline = time.Duration(i) * time.Millisecond
					}
				}
			}
		case "corpus":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "default_language":
					if s, ok := firstStringArg(cn); ok {
						cfg.Corpus.DefaultLanguage = s
					}
				case "ttl_check_interval_sec":
					if i, ok := firstIntArg(cn); ok {
						cfg.Corpus.TTLCheckInterval = time.Duration(i) * time.Second
					}
				}
			}
		}
	}
	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if n == nil || len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if n == nil || len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if n == nil || len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if n == nil || len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
