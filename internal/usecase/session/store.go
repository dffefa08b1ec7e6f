// Package session owns the conversation transcript and the submission flow
// around it. The store only ever grows within one session; entries are
// immutable once appended.
package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"genechat/internal/domain"
)

// Store is the append-only conversation transcript. A tool_result entry is
// correlated with its tool_use by id; the index is maintained incrementally
// as entries are appended so rendering never rescans the transcript.
type Store struct {
	mu      sync.RWMutex
	entries []domain.Entry
	toolUse map[string]int // tool_use entry id -> index in entries
}

// NewStore creates an empty transcript store.
func NewStore() *Store {
	return &Store{
		entries: make([]domain.Entry, 0),
		toolUse: make(map[string]int),
	}
}

// Append adds entries in order, stamping missing timestamps and indexing
// tool_use ids (thread-safe).
func (s *Store) Append(entries ...domain.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if e.Timestamp.IsZero() {
			e.Timestamp = time.Now()
		}
		if e.IsToolUse() && e.ID != "" {
			s.toolUse[e.ID] = len(s.entries)
		}
		s.entries = append(s.entries, e)
	}
}

// Entries returns a copy of the transcript (thread-safe).
func (s *Store) Entries() []domain.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]domain.Entry, len(s.entries))
	copy(cp, s.entries)
	return cp
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// ToolUse returns the tool_use entry with the given id. The second return
// is false when no match exists; callers degrade to rendering the result
// alone.
func (s *Store) ToolUse(id string) (domain.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.toolUse[id]
	if !ok {
		return domain.Entry{}, false
	}
	return s.entries[idx], true
}

// Seed replaces the transcript with a fixed set of entries, used by the
// demo mode to pre-load an example conversation.
func (s *Store) Seed(entries []domain.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make([]domain.Entry, 0, len(entries))
	s.toolUse = make(map[string]int)
	for _, e := range entries {
		if e.IsToolUse() && e.ID != "" {
			s.toolUse[e.ID] = len(s.entries)
		}
		s.entries = append(s.entries, e)
	}
}

// Clear empties the transcript.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
	s.toolUse = make(map[string]int)
}

// NewEntryID generates a ULID for locally created entries.
func NewEntryID() string {
	now := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}
