package history

import (
	"sync"

	"github.com/yildizm/SentiDash/internal/common"
)

// DefaultCapacity is the number of records retained
const DefaultCapacity = 100

// Generation counts the mutations of a store
type Generation uint64

// change is one journaled Add or Delete
type change struct {
	gen     Generation
	record  common.Record
	removed bool
}

// Store is the capped, newest-first review history. The zero value is not
// usable; create stores with New.
//
// Add and Delete are journaled so that a snapshot fetched before them can
// still be applied with ReplaceSince. Clear and Replace start a new
// baseline; snapshots requested before it are refused.
type Store struct {
	mu       sync.RWMutex
	capacity int
	records  []common.Record

	gen     Generation
	floor   Generation
	journal []change
}

// New creates an empty store. A capacity below 1 means DefaultCapacity.
func New(capacity int) *Store {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		records:  make([]common.Record, 0, capacity),
	}
}

// Capacity returns the maximum number of retained records
func (s *Store) Capacity() int {
	return s.capacity
}

// Add prepends a record, evicting the oldest while over capacity. A record
// whose id is already present replaces the old entry.
func (s *Store) Add(record common.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = prepend(s.records, record, s.capacity)
	s.record(change{record: record})
}

// prepend puts record in front of records, dropping any older entry with
// the same id and cutting the result to capacity
func prepend(records []common.Record, record common.Record, capacity int) []common.Record {
	records = remove(records, record.ID)
	records = append(records, common.Record{})
	copy(records[1:], records)
	records[0] = record
	if len(records) > capacity {
		records = records[:capacity]
	}
	return records
}

func remove(records []common.Record, id common.ID) []common.Record {
	for i, r := range records {
		if r.ID == id {
			return append(records[:i], records[i+1:]...)
		}
	}
	return records
}

// record journals c under a new generation, forgetting the oldest entries
// past the journal limit
func (s *Store) record(c change) {
	s.gen++
	c.gen = s.gen
	s.journal = append(s.journal, c)
	if limit := 4 * s.capacity; len(s.journal) > limit {
		drop := len(s.journal) - limit
		s.floor = s.journal[drop-1].gen
		s.journal = append(s.journal[:0], s.journal[drop:]...)
	}
}

// rebase starts a new baseline with an empty journal
func (s *Store) rebase() {
	s.gen++
	s.floor = s.gen
	s.journal = s.journal[:0]
}

// Generation returns the current mutation count. Pass it to ReplaceSince
// along with a snapshot requested at that point.
func (s *Store) Generation() Generation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Get returns the record with the given id
func (s *Store) Get(id common.ID) (common.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return common.Record{}, false
}

// Delete removes the record with the given id. Deleting an absent id is a
// no-op; the return value reports whether anything was removed.
func (s *Store) Delete(id common.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.records)
	s.records = remove(s.records, id)
	if len(s.records) == n {
		return false
	}
	s.record(change{record: common.Record{ID: id}, removed: true})
	return true
}

// Records returns a copy of all records, newest first
func (s *Store) Records() []common.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Recent returns up to n newest records
func (s *Store) Recent(n int) []common.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.records) {
		n = len(s.records)
	}
	if n < 0 {
		n = 0
	}
	out := make([]common.Record, n)
	copy(out, s.records[:n])
	return out
}

// Len returns the number of records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Replace swaps the contents for records, given newest first. Later
// duplicates of an id are dropped and the result is cut to capacity.
func (s *Store) Replace(records []common.Record) {
	kept := s.dedupe(records)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = kept
	s.rebase()
}

// ReplaceSince applies a snapshot requested at generation since. Records
// added after since stay in front and records deleted after since stay
// gone. It returns false, leaving the store untouched, when a Clear or
// Replace happened after since or the journal no longer reaches back to it.
func (s *Store) ReplaceSince(since Generation, records []common.Record) bool {
	kept := s.dedupe(records)

	s.mu.Lock()
	defer s.mu.Unlock()

	if since < s.floor || since > s.gen {
		return false
	}
	for _, c := range s.journal {
		if c.gen <= since {
			continue
		}
		if c.removed {
			kept = remove(kept, c.record.ID)
		} else {
			kept = prepend(kept, c.record, s.capacity)
		}
	}
	s.records = kept
	s.rebase()
	return true
}

func (s *Store) dedupe(records []common.Record) []common.Record {
	seen := make(map[common.ID]struct{}, len(records))
	kept := make([]common.Record, 0, min(len(records), s.capacity))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		kept = append(kept, r)
		if len(kept) == s.capacity {
			break
		}
	}
	return kept
}

// Clear removes all records
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.records[:0]
	s.rebase()
}
