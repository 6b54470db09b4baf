package corpus

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/standardbeagle/lexicore/internal/debug"
	"github.com/standardbeagle/lexicore/internal/errs"
	"github.com/standardbeagle/lexicore/internal/types"
)

// entry holds one corpus's current version behind an atomic pointer, plus
// the per-corpus mutex that serializes its mutators: one mutator at a time
// per corpus, but different corpora mutate in parallel.
type entry struct {
	current atomic.Pointer[Corpus]
	mu      sync.Mutex
}

// Store is the id-indexed arena holding every corpus. It never hands out an
// owning pointer for tree edges — only types.CorpusID values — so the
// parent/child graph can be rewired without anyone owning anyone else.
type Store struct {
	mu     sync.RWMutex // guards byID/byName/nextID, not individual entries
	byID   map[types.CorpusID]*entry
	byName map[string]types.CorpusID
	nextID uint64

	// onMutate, when set, is invoked synchronously with every newly
	// published corpus version, still under that corpus's mutation lock.
	// The index publisher hangs off this hook so derived artifacts are
	// rebuilt on every mutation without corpus importing index.
	onMutate func(*Corpus)
}

// SetOnMutate registers the publish hook. Call before the store is shared
// across goroutines; the hook itself must not mutate the store for the
// same corpus id (it runs under that corpus's mutation lock).
func (s *Store) SetOnMutate(fn func(*Corpus)) {
	s.onMutate = fn
}

// NewStore creates an empty corpus store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[types.CorpusID]*entry),
		byName: make(map[string]types.CorpusID),
	}
}

// Create builds a corpus from an initial vocabulary, computes every derived
// index and the content hash, and publishes version 1. Fails with a
// ConflictError if the name already exists.
func (s *Store) Create(name string, vocabulary []string, language types.Language, ctype types.CorpusType) (*Corpus, error) {
	s.mu.Lock()
	if _, exists := s.byName[name]; exists {
		s.mu.Unlock()
		return nil, errs.NewConflict("duplicate_corpus", name)
	}
	id := types.CorpusID(atomic.AddUint64(&s.nextID, 1))
	e := &entry{}
	s.byID[id] = e
	s.byName[name] = id
	s.mu.Unlock()

	c := &Corpus{
		ID:       id,
		Name:     name,
		Language: language,
		Type:     ctype,
	}
	applyAddWords(c, vocabulary)
	c.LastUpdated = time.Now()
	e.current.Store(c)
	if s.onMutate != nil {
		s.onMutate(c)
	}

	debug.LogCorpus("created corpus %q (id=%d) with %d words\n", name, id, len(c.Vocabulary))
	return c, nil
}

// Get returns the latest published version of a corpus by name.
func (s *Store) Get(name string) (*Corpus, error) {
	s.mu.RLock()
	id, ok := s.byName[name]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewNotFound("corpus", name)
	}
	return s.GetByID(id)
}

// GetByID returns the latest published version of a corpus by id.
func (s *Store) GetByID(id types.CorpusID) (*Corpus, error) {
	s.mu.RLock()
	e, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewNotFound("corpus", idString(id))
	}
	c := e.current.Load()
	if c == nil {
		return nil, errs.NewNotFound("corpus", idString(id))
	}
	return c, nil
}

// List returns the latest version of every corpus currently in the store.
func (s *Store) List() []*Corpus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Corpus, 0, len(s.byID))
	for _, e := range s.byID {
		if c := e.current.Load(); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// withMutator serializes one mutation on the named corpus's entry, then
// swaps in the replacement copy-on-write value fn returns.
func (s *Store) withMutator(id types.CorpusID, fn func(cur *Corpus) (*Corpus, error)) (*Corpus, error) {
	s.mu.RLock()
	e, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewNotFound("corpus", idString(id))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.current.Load()
	next, err := fn(cur)
	if err != nil {
		return nil, err
	}
	e.current.Store(next)
	if s.onMutate != nil {
		s.onMutate(next)
	}
	return next, nil
}

// Delete removes a corpus. With cascade=false it refuses if the corpus
// still has children; with cascade=true it recursively deletes descendants
// first.
func (s *Store) Delete(id types.CorpusID, cascade bool) error {
	c, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if len(c.ChildIDs) > 0 && !cascade {
		return errs.NewConflict("has_children", idString(id))
	}

	if cascade {
		for _, childID := range c.ChildIDs {
			if err := s.Delete(childID, true); err != nil {
				return err
			}
		}
	}

	if c.HasParent {
		if _, err := s.withMutator(c.ParentID, func(parent *Corpus) (*Corpus, error) {
			return detachChildID(parent, id), nil
		}); err != nil {
			return err
		}
	}

	s.mu.Lock()
	delete(s.byID, id)
	delete(s.byName, c.Name)
	s.mu.Unlock()

	debug.LogCorpus("deleted corpus %q (id=%d), cascade=%v\n", c.Name, id, cascade)
	return nil
}

func idString(id types.CorpusID) string {
	return strconv.FormatUint(uint64(id), 10)
}
