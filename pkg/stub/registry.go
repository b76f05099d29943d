package stub

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/getmockd/httpstub/internal/matching"
)

// ErrNotFound is returned by Replace when no stub with the target identity
// is registered.
var ErrNotFound = errors.New("no stub registered for identity")

// PassthroughRule marks requests as exempt from interception: a matching
// request is never resolved against the stub list and is sent to its real
// destination instead. Exactly one of Prefix and Pattern is set.
type PassthroughRule struct {
	Prefix  string
	Pattern *regexp.Regexp
}

// Matches reports whether the rule covers the request URL.
func (r PassthroughRule) Matches(u *url.URL) bool {
	if u == nil {
		return false
	}
	if r.Pattern != nil {
		return r.Pattern.MatchString(u.String())
	}
	return strings.HasPrefix(u.String(), r.Prefix)
}

// Registry is an ordered, mutex-guarded store of stubs and passthrough
// rules, scoped to one activation. The mutex exists so an intercepted
// request on one goroutine and registry mutations from the test goroutine
// do not race; a single active controller per process remains the supported
// model.
type Registry struct {
	mu          sync.RWMutex
	stubs       []*Stub
	passthrough []PassthroughRule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a stub, preserving registration order.
func (r *Registry) Add(s *Stub) {
	if s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stubs = append(r.stubs, s)
}

// Insert places a stub at the given position, giving it matching priority
// over later entries without disturbing their sequence semantics. The index
// is clamped to the valid range.
func (r *Registry) Insert(index int, s *Stub) {
	if s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 {
		index = 0
	}
	if index > len(r.stubs) {
		index = len(r.stubs)
	}
	r.stubs = append(r.stubs[:index], append([]*Stub{s}, r.stubs[index:]...)...)
}

// Replace swaps the first stub sharing the given stub's identity for the
// new one, keeping its position. The replacement starts with a zero call
// count. Returns ErrNotFound when no stub with that identity exists.
func (r *Registry) Replace(s *Stub) error {
	if s == nil {
		return ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.stubs {
		if existing.SameIdentity(s) {
			s.CallCount = 0
			r.stubs[i] = s
			return nil
		}
	}
	return ErrNotFound
}

// Upsert behaves like Replace when a stub with the same identity exists and
// like Add otherwise.
func (r *Registry) Upsert(s *Stub) {
	if s == nil {
		return
	}
	if err := r.Replace(s); err != nil {
		r.Add(s)
	}
}

// Remove deletes every stub with the given (method, URL) identity, not just
// the first. Returns the number of stubs removed.
func (r *Registry) Remove(method, rawURL string) int {
	target := &Stub{Method: strings.ToUpper(method), URL: matching.NormalizeURL(rawURL)}
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.stubs[:0]
	removed := 0
	for _, s := range r.stubs {
		if s.SameIdentity(target) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	r.stubs = kept
	return removed
}

// AddPassthrough appends a passthrough rule.
func (r *Registry) AddPassthrough(rule PassthroughRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passthrough = append(r.passthrough, rule)
}

// Passthrough reports whether any passthrough rule, checked in registration
// order, covers the URL.
func (r *Registry) Passthrough(u *url.URL) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rule := range r.passthrough {
		if rule.Matches(u) {
			return true
		}
	}
	return false
}

// Resolve picks the stub that serves this request. Among all matching stubs
// the earliest one that is persistent or unused wins; once every matching
// stub has been used, the last one keeps serving (sticky-last). The winner's
// call count is incremented before returning.
func (r *Registry) Resolve(req *Request) (*Stub, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *Stub
	for _, s := range r.stubs {
		if !s.Matches(req) {
			continue
		}
		if s.Persistent || s.CallCount == 0 {
			s.CallCount++
			return s, true
		}
		last = s
	}
	if last != nil {
		last.CallCount++
		return last, true
	}
	return nil, false
}

// Stubs returns the registered stubs in registration order.
func (r *Registry) Stubs() []*Stub {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Stub(nil), r.stubs...)
}

// Unfired returns the stubs that have never matched a request.
func (r *Registry) Unfired() []*Stub {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Stub
	for _, s := range r.stubs {
		if s.CallCount == 0 {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of registered stubs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stubs)
}

// Reset removes all stubs and passthrough rules. Resetting an empty
// registry is a no-op.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stubs = nil
	r.passthrough = nil
}
