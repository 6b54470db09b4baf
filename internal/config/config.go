// Package config holds the explicit, enumerated configuration structs the
// search core is constructed from: server address, cache roots, semantic
// search toggles, and corpus defaults. Configuration is loaded from a
// ".lexicore.kdl" file (kdl_config.go) via github.com/sblinch/kdl-go,
// validated and defaulted by Validator (validator.go), and overridable by
// CLI flags.
package config

import "time"

// Config is the root configuration object constructed at start-up and
// passed down explicitly; nothing in the module reads configuration from
// a package-level singleton.
type Config struct {
	Server   Server
	Cache    Cache
	Semantic Semantic
	Search   Search
	Corpus   Corpus
}

// Server configures the REST API surface (internal/server).
type Server struct {
	Addr string // e.g. ":8080"
}

// Cache configures the versioned cache manager's disk tier.
type Cache struct {
	DiskRoot string // root directory for the L2 file store
}

// Semantic controls whether the semantic index builder runs at all.
// Disabling it skips the semantic artifact but does not disable
// per-corpus semantic settings.
type Semantic struct {
	Enabled      bool
	EmbedDim     int
	WorkerShards int // errgroup shard count for background embedding
}

// Search configures request-time defaults for the query endpoint.
type Search struct {
	DefaultMaxResults int
	DefaultMinScore   float64
	DefaultDeadline   time.Duration
}

// Corpus configures defaults applied to new corpora created without an
// explicit override (e.g. via POST /corpus).
type Corpus struct {
	DefaultLanguage   string
	TTLCheckInterval  time.Duration
	ConfigPath        string // .lexicore.kdl path this Config was loaded from, "" if defaults only
}

// Default returns a Config populated with the same conservative defaults
// LoadKDL falls back to when no config file is present.
func Default() *Config {
	return &Config{
		Server: Server{Addr: ":8080"},
		Cache:  Cache{DiskRoot: "./.lexicore-cache"},
		Semantic: Semantic{
			Enabled:      true,
			EmbedDim:     8,
			WorkerShards: 4,
		},
		Search: Search{
			DefaultMaxResults: 20,
			DefaultMinScore:   0.6,
			DefaultDeadline:   45 * time.Millisecond,
		},
		Corpus: Corpus{
			DefaultLanguage:  "en",
			TTLCheckInterval: time.Minute,
		},
	}
}

// Load reads configPath if it exists and overlays it onto Default(); a
// missing file is not an error, Default() alone is returned.
func Load(configPath string) (*Config, error) {
	cfg := Default()
	loaded, err := LoadKDL(configPath)
	if err != nil {
		return nil, err
	}
	if loaded != nil {
		mergeInto(cfg, loaded)
		cfg.Corpus.ConfigPath = configPath
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeInto overlays every non-zero field of src onto dst, so only
// settings the file actually names override the defaults. The one
// exception is Semantic.Enabled, a bool copied as-is; LoadKDL parses on
// top of Default(), so it still carries the default unless the file sets it.
func mergeInto(dst, src *Config) {
	if src.Server.Addr != "" {
		dst.Server.Addr = src.Server.Addr
	}
	if src.Cache.DiskRoot != "" {
		dst.Cache.DiskRoot = src.Cache.DiskRoot
	}
	dst.Semantic.Enabled = src.Semantic.Enabled
	if src.Semantic.EmbedDim != 0 {
		dst.Semantic.EmbedDim = src.Semantic.EmbedDim
	}
	if src.Semantic.WorkerShards != 0 {
		dst.Semantic.WorkerShards = src.Semantic.WorkerShards
	}
	if src.Search.DefaultMaxResults != 0 {
		dst.Search.DefaultMaxResults = src.Search.DefaultMaxResults
	}
	if src.Search.DefaultMinScore != 0 {
		dst.Search.DefaultMinScore = src.Search.DefaultMinScore
	}
	if src.Search.DefaultDeadline != 0 {
		dst.Search.DefaultDeadline = src.Search.DefaultDeadline
	}
	if src.Corpus.DefaultLanguage != "" {
		dst.Corpus.DefaultLanguage = src.Corpus.DefaultLanguage
	}
	if src.Corpus.TTLCheckInterval != 0 {
		dst.Corpus.TTLCheckInterval = src.Corpus.TTLCheckInterval
	}
}
