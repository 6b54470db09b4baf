package corpus

import (
	"time"

	"github.com/standardbeagle/lexicore/internal/debug"
	"github.com/standardbeagle/lexicore/internal/errs"
	"github.com/standardbeagle/lexicore/internal/normalize"
	"github.com/standardbeagle/lexicore/internal/types"
)

// cloneShallow copies the fields of c that AddWords/RemoveWords mutate in
// place after cloning, implementing the copy-on-write contract: the
// original *Corpus a concurrent reader holds is left untouched.
func cloneShallow(c *Corpus) *Corpus {
	if c == nil {
		return &Corpus{}
	}
	n := *c
	n.Vocabulary = append([]string(nil), c.Vocabulary...)
	n.OriginalVocabulary = append([]string(nil), c.OriginalVocabulary...)
	n.ChildIDs = append([]types.CorpusID(nil), c.ChildIDs...)
	// Maps are rebuilt wholesale by rebuildDerived; no need to deep-copy them.
	return &n
}

// applyAddWords normalizes and appends words to c in place, then rebuilds
// every derived index. Used both by Store.Create (against a blank Corpus)
// and by AddWords (against a clone of the current version).
func applyAddWords(c *Corpus, words []string) int {
	added := 0
	fresh := make(map[string]bool)
	for _, original := range words {
		n := normalize.Normalize(original)
		if n == "" {
			continue
		}
		if _, exists := c.VocabularyToIndex[n]; exists || fresh[n] {
			// Already present, either before this call or from an earlier
			// word in it; still keep the original surface.
			c.OriginalVocabulary = append(c.OriginalVocabulary, original)
			continue
		}
		fresh[n] = true
		c.Vocabulary = append(c.Vocabulary, n)
		c.OriginalVocabulary = append(c.OriginalVocabulary, original)
		added++
	}
	c.Vocabulary = sortedUnique(c.Vocabulary)
	rebuildDerived(c)
	return added
}

// AddWords normalizes each word, skips ones already present, appends
// originals, re-sorts, and fully rebuilds every derived index. Returns the
// count of newly added (previously absent) words.
func (s *Store) AddWords(id types.CorpusID, words []string) (int, error) {
	added := 0
	_, err := s.withMutator(id, func(cur *Corpus) (*Corpus, error) {
		next := cloneShallow(cur)
		added = applyAddWords(next, words)
		next.LastUpdated = time.Now()
		return next, nil
	})
	if err != nil {
		return 0, err
	}
	debug.LogCorpus("add_words on corpus %d: %d new words\n", id, added)
	return added, propagateToMaster(s, id)
}

// RemoveWords normalizes each word and removes it from the vocabulary and
// every derived map, then rebuilds. An original surface is dropped from
// OriginalVocabulary only if its normalized form is no longer present in
// the vocabulary after the removal — an original surface for a word
// retained via another occurrence is never dropped.
func (s *Store) RemoveWords(id types.CorpusID, words []string) error {
	toRemove := make(map[string]bool, len(words))
	for _, w := range words {
		if n := normalize.Normalize(w); n != "" {
			toRemove[n] = true
		}
	}

	_, err := s.withMutator(id, func(cur *Corpus) (*Corpus, error) {
		next := cloneShallow(cur)

		kept := next.Vocabulary[:0]
		for _, w := range next.Vocabulary {
			if !toRemove[w] {
				kept = append(kept, w)
			}
		}
		next.Vocabulary = append([]string(nil), kept...)
		next.Vocabulary = sortedUnique(next.Vocabulary)

		rebuildDerived(next)

		// Drop original surfaces whose normalized form no longer exists;
		// surfaces of words retained via another occurrence stay.
		surfaces := next.OriginalVocabulary[:0]
		for _, orig := range next.OriginalVocabulary {
			if _, ok := next.VocabularyToIndex[normalize.Normalize(orig)]; ok {
				surfaces = append(surfaces, orig)
			}
		}
		next.OriginalVocabulary = append([]string(nil), surfaces...)
		next.LastUpdated = time.Now()
		return next, nil
	})
	if err != nil {
		return err
	}
	debug.LogCorpus("remove_words on corpus %d\n", id)
	return propagateToMaster(s, id)
}

// SetTTL schedules id for deletion at ttl from now, or clears any existing
// TTL if ttl <= 0. It does not itself arm a timer; callers pass the
// returned corpus to a TTLScheduler.
func (s *Store) SetTTL(id types.CorpusID, ttl time.Duration) (*Corpus, error) {
	return s.withMutator(id, func(cur *Corpus) (*Corpus, error) {
		next := cloneShallow(cur)
		if ttl > 0 {
			next.HasTTL = true
			next.DeleteAt = time.Now().Add(ttl)
		} else {
			next.HasTTL = false
			next.DeleteAt = time.Time{}
		}
		return next, nil
	})
}

// ReplaceVocabulary discards the existing vocabulary and rebuilds from
// scratch with the given words.
func (s *Store) ReplaceVocabulary(id types.CorpusID, words []string) error {
	_, err := s.withMutator(id, func(cur *Corpus) (*Corpus, error) {
		next := cloneShallow(cur)
		next.Vocabulary = nil
		next.OriginalVocabulary = nil
		next.VocabularyToIndex = nil
		applyAddWords(next, words)
		next.LastUpdated = time.Now()
		return next, nil
	})
	if err != nil {
		return err
	}
	return propagateToMaster(s, id)
}

// AttachChild adds childID to parentID's ChildIDs and sets the child's
// ParentID, refusing self-parenting, re-parenting, and cycles.
func (s *Store) AttachChild(parentID, childID types.CorpusID) error {
	if parentID == childID {
		return errs.NewConflict("cycle", "a corpus cannot be its own parent")
	}

	child, err := s.GetByID(childID)
	if err != nil {
		return err
	}
	if child.HasParent {
		return errs.NewConflict("already_attached", idString(childID))
	}
	if err := s.checkNoCycle(parentID, childID); err != nil {
		return err
	}

	if _, err := s.withMutator(parentID, func(parent *Corpus) (*Corpus, error) {
		next := cloneShallow(parent)
		next.ChildIDs = append(next.ChildIDs, childID)
		return next, nil
	}); err != nil {
		return err
	}

	_, err = s.withMutator(childID, func(cur *Corpus) (*Corpus, error) {
		next := cloneShallow(cur)
		next.ParentID = parentID
		next.HasParent = true
		return next, nil
	})
	return err
}

// checkNoCycle walks from parentID upward (through HasParent) and rejects
// the attach if childID appears anywhere in that ancestor chain, or if
// childID already has descendants that include parentID.
func (s *Store) checkNoCycle(parentID, childID types.CorpusID) error {
	cur := parentID
	for {
		c, err := s.GetByID(cur)
		if err != nil {
			return nil // orphaned id mid-walk; not this function's concern
		}
		if !c.HasParent {
			return nil
		}
		if c.ParentID == childID {
			return errs.NewConflict("cycle", "attaching would create a cycle")
		}
		cur = c.ParentID
	}
}

// DetachChild removes childID from parentID's ChildIDs. If delete is true
// the child corpus is also deleted (non-cascading, since it is already
// being detached from its only parent).
func (s *Store) DetachChild(parentID, childID types.CorpusID, del bool) error {
	if _, err := s.withMutator(parentID, func(parent *Corpus) (*Corpus, error) {
		return detachChildID(parent, childID), nil
	}); err != nil {
		return err
	}

	_, err := s.withMutator(childID, func(cur *Corpus) (*Corpus, error) {
		next := cloneShallow(cur)
		next.HasParent = false
		next.ParentID = 0
		return next, nil
	})
	if err != nil {
		return err
	}

	if del {
		return s.Delete(childID, false)
	}
	return nil
}

func detachChildID(parent *Corpus, childID types.CorpusID) *Corpus {
	next := cloneShallow(parent)
	filtered := next.ChildIDs[:0]
	for _, id := range next.ChildIDs {
		if id != childID {
			filtered = append(filtered, id)
		}
	}
	next.ChildIDs = append([]types.CorpusID(nil), filtered...)
	return next
}

// AggregateMaster recomputes masterID's vocabulary as the sorted union of
// its direct children's vocabularies. Aggregation is one level: deeper
// descendants are not flattened. Idempotent.
func (s *Store) AggregateMaster(masterID types.CorpusID) error {
	master, err := s.GetByID(masterID)
	if err != nil {
		return err
	}

	union := make(map[string]bool)
	for _, childID := range master.ChildIDs {
		child, err := s.GetByID(childID)
		if err != nil {
			continue // a dangling child id is a store bug elsewhere, not fatal here
		}
		for _, w := range child.Vocabulary {
			union[w] = true
		}
	}

	words := make([]string, 0, len(union))
	for w := range union {
		words = append(words, w)
	}

	_, err = s.withMutator(masterID, func(cur *Corpus) (*Corpus, error) {
		next := cloneShallow(cur)
		next.Vocabulary = nil
		next.OriginalVocabulary = nil
		next.VocabularyToIndex = nil
		applyAddWords(next, words)
		next.LastUpdated = time.Now()
		return next, nil
	})
	return err
}

// propagateToMaster re-aggregates id's parent if it IsMaster: a master
// corpus's vocabulary is the union of its children's vocabulary and is
// rebuilt on any child change.
func propagateToMaster(s *Store, id types.CorpusID) error {
	c, err := s.GetByID(id)
	if err != nil {
		return nil
	}
	if !c.HasParent {
		return nil
	}
	parent, err := s.GetByID(c.ParentID)
	if err != nil || !parent.IsMaster {
		return nil
	}
	return s.AggregateMaster(parent.ID)
}
