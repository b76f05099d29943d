package calllog

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/httpstub/internal/matching"
)

// Store is the interface the interceptor records exchanges through and the
// assertion helpers query.
type Store interface {
	// Log appends an entry.
	Log(e *Entry)

	// List returns entries in append order, optionally filtered.
	List(f *Filter) []*Entry

	// Count returns the total number of entries.
	Count() int

	// CountForURL returns the number of entries whose normalized URL
	// equals the given one.
	CountForURL(rawURL string) int

	// CountFor is CountForURL additionally restricted to one method.
	CountFor(method, rawURL string) int

	// Clear removes all entries.
	Clear()
}

// Filter defines criteria for filtering call log entries. Zero-value fields
// are ignored.
type Filter struct {
	// Method filters by request method.
	Method string

	// URLPrefix filters by URL prefix.
	URLPrefix string

	// StubID filters by the stub that served the request.
	StubID string

	// StatusCode filters by response status.
	StatusCode int

	// HasError filters by error presence.
	HasError *bool

	// Passthrough filters by passthrough outcome.
	Passthrough *bool

	// Limit is the maximum number of entries to return.
	Limit int
}

// InMemoryStore is a mutex-guarded, append-only Store implementation.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Log appends an entry, assigning an ID and timestamp if unset.
func (s *InMemoryStore) Log(e *Entry) {
	if e == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	s.entries = append(s.entries, e)
}

// List returns entries in append order, optionally filtered.
func (s *InMemoryStore) List(f *Filter) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if f != nil && !matchesFilter(e, f) {
			continue
		}
		result = append(result, e)
		if f != nil && f.Limit > 0 && len(result) == f.Limit {
			break
		}
	}
	return result
}

func matchesFilter(e *Entry, f *Filter) bool {
	if f.Method != "" && !strings.EqualFold(e.Method, f.Method) {
		return false
	}
	if f.URLPrefix != "" && !strings.HasPrefix(e.URL, f.URLPrefix) {
		return false
	}
	if f.StubID != "" && e.StubID != f.StubID {
		return false
	}
	if f.StatusCode != 0 && e.StatusCode != f.StatusCode {
		return false
	}
	if f.HasError != nil && *f.HasError != (e.Error != "") {
		return false
	}
	if f.Passthrough != nil && *f.Passthrough != e.Passthrough {
		return false
	}
	return true
}

// Count returns the total number of entries.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// CountForURL returns the number of entries whose normalized URL equals the
// given one, regardless of method.
func (s *InMemoryStore) CountForURL(rawURL string) int {
	return s.CountFor("", rawURL)
}

// CountFor returns the number of entries for the given method and URL. An
// empty method counts all methods.
func (s *InMemoryStore) CountFor(method, rawURL string) int {
	want := matching.NormalizeURL(rawURL)
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, e := range s.entries {
		if method != "" && !strings.EqualFold(e.Method, method) {
			continue
		}
		if matching.NormalizeURL(e.URL) == want {
			count++
		}
	}
	return count
}

// Clear removes all entries. Clearing an empty store is a no-op.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// Ensure InMemoryStore implements Store.
var _ Store = (*InMemoryStore)(nil)
