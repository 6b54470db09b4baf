package corpus

import (
	"sync"
	"time"

	"github.com/standardbeagle/lexicore/internal/debug"
	"github.com/standardbeagle/lexicore/internal/types"
)

// TTLScheduler deletes corpora at their configured DeleteAt time. TTL,
// when present, schedules deletion; it is not a soft expiry for matching.
// Up until the timer fires, a TTL'd corpus searches exactly like any
// other.
type TTLScheduler struct {
	store *Store

	mu     sync.Mutex
	timers map[types.CorpusID]*time.Timer
	closed bool
}

// NewTTLScheduler creates a scheduler bound to store. It does not scan for
// existing TTLs on construction; call Sync after loading any persisted
// corpora to pick up TTLs that predate the scheduler.
func NewTTLScheduler(store *Store) *TTLScheduler {
	return &TTLScheduler{
		store:  store,
		timers: make(map[types.CorpusID]*time.Timer),
	}
}

// Schedule arms (or re-arms) the deletion timer for c. Calling it again for
// the same corpus id replaces the previous timer, so updating a corpus's
// TTL via a later mutation is safe.
func (s *TTLScheduler) Schedule(c *Corpus) {
	if !c.HasTTL {
		s.Cancel(c.ID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if existing, ok := s.timers[c.ID]; ok {
		existing.Stop()
	}

	delay := time.Until(c.DeleteAt)
	if delay < 0 {
		delay = 0
	}
	id := c.ID
	s.timers[id] = time.AfterFunc(delay, func() {
		if err := s.store.Delete(id, false); err != nil {
			debug.LogCorpus("ttl delete of corpus %d failed (likely has children): %v\n", id, err)
			return
		}
		debug.LogCorpus("ttl-deleted corpus %d\n", id)
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
	})
}

// Cancel disarms any pending deletion timer for id (e.g. because its TTL
// was cleared by a later mutation, or it was deleted by other means).
func (s *TTLScheduler) Cancel(id types.CorpusID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// Sync arms timers for every currently-stored corpus that carries a TTL,
// used once at start-up after corpora are loaded from persistence.
func (s *TTLScheduler) Sync() {
	for _, c := range s.store.List() {
		if c.HasTTL {
			s.Schedule(c)
		}
	}
}

// Close stops every pending timer without deleting the corpora they were
// guarding.
func (s *TTLScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
