// Package types holds the value types shared across every component of the
// search core: words, corpora, search results, and the small ID types that
// replace owning pointers in the corpus tree (see internal/corpus's
// id-indexed arena).
package types

import "time"

// CorpusID identifies a corpus. Stable for the lifetime of the corpus;
// reused across versions of the same corpus.
type CorpusID uint64

// ArtifactID identifies one versioned index artifact (trie, signature,
// semantic, or search facade).
type ArtifactID uint64

// Language is an enumerated language tag. It affects lemmatization only,
// never matching.
type Language string

const (
	LanguageUnknown Language = ""
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
	LanguageSpanish Language = "es"
	LanguageGerman  Language = "de"
	LanguageItalian Language = "it"
)

// CorpusType classifies a corpus.
type CorpusType string

const (
	CorpusLanguage   CorpusType = "LANGUAGE"
	CorpusLiterature CorpusType = "LITERATURE"
	CorpusLexicon    CorpusType = "LEXICON"
	CorpusCustom     CorpusType = "CUSTOM"
)

// MatchMethod names which matcher family produced a SearchResult.
type MatchMethod string

const (
	MethodExact    MatchMethod = "EXACT"
	MethodPrefix   MatchMethod = "PREFIX"
	MethodFuzzy    MatchMethod = "FUZZY"
	MethodSemantic MatchMethod = "SEMANTIC"
)

// priority returns the cascade priority of a method; lower sorts first.
// EXACT < PREFIX < FUZZY < SEMANTIC.
func (m MatchMethod) priority() int {
	switch m {
	case MethodExact:
		return 0
	case MethodPrefix:
		return 1
	case MethodFuzzy:
		return 2
	case MethodSemantic:
		return 3
	default:
		return 4
	}
}

// Priority exposes the cascade ordering for external callers (e.g. the
// search engine's deduplication pass).
func (m MatchMethod) Priority() int { return m.priority() }

// SearchMode selects which matcher(s) a query invokes.
type SearchMode string

const (
	ModeExact    SearchMode = "exact"
	ModeFuzzy    SearchMode = "fuzzy"
	ModeSemantic SearchMode = "semantic"
	ModeSmart    SearchMode = "smart" // cascade
)

// Word carries the two forms the system always keeps side by side: the
// user-visible original surface, and the normalized form used as the key
// for all matching.
type Word struct {
	Original   string
	Normalized string
}

// SearchResult is the tuple every matcher returns.
type SearchResult struct {
	Word       string         `json:"word"` // original surface
	Normalized string         `json:"normalized"`
	Score      float64        `json:"score"`
	Method     MatchMethod    `json:"method"`
	Language   Language       `json:"language"`
	Distance   int            `json:"distance"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// QueryParams is the explicit, enumerated struct standing in for the loose
// dynamic query objects a scripting-language client would pass, so the
// compiler catches a missing or misnamed field instead of a runtime map
// lookup.
type QueryParams struct {
	Query      string
	Mode       SearchMode
	MaxResults int
	MinScore   float64
	CorpusName string
	Languages  []Language
	Deadline   time.Time // zero value means "no explicit deadline"
}

// SearchResponse is the payload the REST query endpoint returns.
type SearchResponse struct {
	Query      string         `json:"query"`
	Results    []SearchResult `json:"results"`
	TotalFound int            `json:"total_found"`
	Languages  []Language     `json:"languages"`
	Mode       SearchMode     `json:"mode"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// SemanticStatus answers GET /search/semantic/status.
type SemanticStatus struct {
	Enabled  bool   `json:"enabled"`
	Ready    bool   `json:"ready"`
	Building bool   `json:"building"`
	Message  string `json:"message,omitempty"`
}

// EngineState is the search engine manager's lifecycle state.
type EngineState string

const (
	EngineUninitialized EngineState = "uninitialized"
	EngineInitializing  EngineState = "initializing"
	EngineReady         EngineState = "ready"
	EngineError         EngineState = "error"
)

// HealthStatus answers GET /health.
type HealthStatus struct {
	Status         string      `json:"status"` // "healthy" | "degraded"
	SearchEngine   EngineState `json:"search_engine"`
	Database       string      `json:"database"`
	UptimeSeconds  float64     `json:"uptime_seconds"`
	CacheHitRate   float64     `json:"cache_hit_rate"`
	ConnectionPool int         `json:"connection_pool"`
}
