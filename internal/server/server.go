// Package server exposes the search core over net/http + http.ServeMux:
// plain handler funcs, JSON request/response structs, no router framework.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/standardbeagle/lexicore/internal/cache"
	"github.com/standardbeagle/lexicore/internal/corpus"
	"github.com/standardbeagle/lexicore/internal/debug"
	"github.com/standardbeagle/lexicore/internal/errs"
	"github.com/standardbeagle/lexicore/internal/search"
	"github.com/standardbeagle/lexicore/internal/types"
)

// Server wires the search engine, corpus store, TTL scheduler, and cache
// manager behind the REST surface.
type Server struct {
	engine *search.Engine
	store  *corpus.Store
	ttl    *corpus.TTLScheduler
	cache  *cache.Manager

	startTime  time.Time
	shardCount int
	semanticOn bool
	dbBackend  string
}

// Options configures a Server at construction.
type Options struct {
	Store      *corpus.Store
	Engine     *search.Engine
	TTL        *corpus.TTLScheduler
	Cache      *cache.Manager
	ShardCount int
	SemanticOn bool
	DBBackend  string // reported verbatim in GET /health's "database" field
}

// New builds a Server ready to be mounted on an *http.ServeMux via
// RegisterRoutes.
func New(opts Options) *Server {
	shards := opts.ShardCount
	if shards < 1 {
		shards = 1
	}
	return &Server{
		engine:     opts.Engine,
		store:      opts.Store,
		ttl:        opts.TTL,
		cache:      opts.Cache,
		startTime:  time.Now(),
		shardCount: shards,
		semanticOn: opts.SemanticOn,
		dbBackend:  opts.DBBackend,
	}
}

// RegisterRoutes mounts every endpoint onto mux, using Go 1.22's
// method+path ServeMux patterns in place of a router dependency.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /search/semantic/status", s.handleSemanticStatus)
	mux.HandleFunc("POST /corpus", s.handleCreateCorpus)
	mux.HandleFunc("GET /corpus/{nameOrID}", s.handleGetCorpus)
	mux.HandleFunc("DELETE /corpus/{id}", s.handleDeleteCorpus)
	mux.HandleFunc("GET /health", s.handleHealth)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := types.QueryParams{
		Query:      q.Get("q"),
		Mode:       types.SearchMode(q.Get("mode")),
		CorpusName: q.Get("corpus_name"),
		MaxResults: 20,
		MinScore:   0.6,
	}
	if v := q.Get("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, errs.NewValidation("max_results", "must be an integer"))
			return
		}
		params.MaxResults = n
	}
	if v := q.Get("min_score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, errs.NewValidation("min_score", "must be a number"))
			return
		}
		params.MinScore = f
	}
	for _, lang := range q["languages"] {
		params.Languages = append(params.Languages, types.Language(lang))
	}

	resp, err := s.engine.Search(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	var corpusHash uint64
	if params.CorpusName != "" {
		if c, cerr := s.store.Get(params.CorpusName); cerr == nil {
			corpusHash = c.VocabularyHash
		}
	}
	tag := computeETag(corpusHash, params)
	if match := r.Header.Get("If-None-Match"); match == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", tag)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSemanticStatus(w http.ResponseWriter, r *http.Request) {
	var status types.SemanticStatus
	if name := r.URL.Query().Get("corpus_name"); name != "" {
		c, err := s.store.Get(name)
		if err != nil {
			writeError(w, err)
			return
		}
		status = s.engine.SemanticStatus(c.ID)
	} else {
		status = s.engine.AggregateSemanticStatus()
	}
	status.Enabled = s.semanticOn
	writeJSON(w, http.StatusOK, status)
}

// createCorpusRequest is the POST /corpus body.
type createCorpusRequest struct {
	Name           string   `json:"name"`
	Language       string   `json:"language"`
	SourceType     string   `json:"source_type"`
	Vocabulary     []string `json:"vocabulary"`
	EnableSemantic bool     `json:"enable_semantic"`
	TTLHours       float64  `json:"ttl_hours"`
}

type corpusDescriptor struct {
	ID             types.CorpusID   `json:"id"`
	Name           string           `json:"name"`
	Language       types.Language   `json:"language"`
	Type           types.CorpusType `json:"type"`
	VocabularySize int              `json:"vocabulary_size"`
}

func (s *Server) handleCreateCorpus(w http.ResponseWriter, r *http.Request) {
	var req createCorpusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errs.NewValidation("body", "invalid JSON: "+err.Error()))
		return
	}
	if req.Name == "" {
		writeError(w, errs.NewValidation("name", "must not be empty"))
		return
	}

	ctype := types.CorpusCustom
	if req.SourceType != "" {
		ctype = types.CorpusType(req.SourceType)
	}

	c, err := s.store.Create(req.Name, req.Vocabulary, types.Language(req.Language), ctype)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.EnableSemantic {
		s.engine.BuildSemanticAsync(context.WithoutCancel(r.Context()), c, s.shardCount)
	}
	if req.TTLHours > 0 && s.ttl != nil {
		updated, err := s.store.SetTTL(c.ID, time.Duration(req.TTLHours*float64(time.Hour)))
		if err != nil {
			writeError(w, err)
			return
		}
		s.ttl.Schedule(updated)
		c = updated
	}

	debug.LogServer("created corpus %q (id=%d, %d words)\n", c.Name, c.ID, len(c.Vocabulary))
	writeJSON(w, http.StatusCreated, corpusDescriptor{
		ID: c.ID, Name: c.Name, Language: c.Language, Type: c.Type,
		VocabularySize: len(c.Vocabulary),
	})
}

func (s *Server) handleGetCorpus(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("nameOrID")
	c, err := s.resolveCorpus(key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, corpusDescriptor{
		ID: c.ID, Name: c.Name, Language: c.Language, Type: c.Type,
		VocabularySize: len(c.Vocabulary),
	})
}

func (s *Server) handleDeleteCorpus(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("id")
	c, err := s.resolveCorpus(key)
	if err != nil {
		writeError(w, err)
		return
	}
	cascade := r.URL.Query().Get("cascade") == "true"
	if err := s.store.Delete(c.ID, cascade); err != nil {
		writeError(w, err)
		return
	}
	if s.ttl != nil {
		s.ttl.Cancel(c.ID)
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveCorpus accepts either a corpus name or its decimal id.
func (s *Server) resolveCorpus(key string) (*corpus.Corpus, error) {
	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		return s.store.GetByID(types.CorpusID(id))
	}
	return s.store.Get(key)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	state := s.engine.State()
	if state == types.EngineError {
		status = "degraded"
	}
	health := types.HealthStatus{
		Status:         status,
		SearchEngine:   state,
		Database:       s.dbBackend,
		UptimeSeconds:  time.Since(s.startTime).Seconds(),
		CacheHitRate:   s.cache.HitRate(),
		ConnectionPool: 1, // no connection-pooled backend; reported for shape parity
	}
	writeJSON(w, http.StatusOK, health)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errs.StatusCode(err), map[string]string{"error": err.Error()})
}
