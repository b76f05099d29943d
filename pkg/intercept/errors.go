package intercept

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getmockd/httpstub/pkg/stub"
)

// Sentinel errors. The richer NoMatchError and AssertionError types wrap
// ErrNoMatch and ErrAssertion respectively, so errors.Is works on both.
var (
	// ErrNoMatch reports a request that no stub or passthrough rule
	// matched. It surfaces from the intercepted client as a transport
	// error, wrapped in *url.Error the way net/http wraps any transport
	// failure.
	ErrNoMatch = errors.New("no registered stub matched the request")

	// ErrNotActive reports use of the global convenience API, or Stop,
	// with no active controller.
	ErrNotActive = errors.New("no interception controller is active")

	// ErrAlreadyActive reports a re-entrant Start, or a Start while a
	// different controller holds the interception seam.
	ErrAlreadyActive = errors.New("an interception controller is already active")

	// ErrAssertion reports a failed stub assertion: unfired stubs at
	// teardown or a mismatched call count.
	ErrAssertion = errors.New("stub assertion failed")
)

// NoMatchError carries the attempted request and every registered stub so a
// mismatched expectation can be diagnosed from the error message alone.
type NoMatchError struct {
	Method string
	URL    string
	Stubs  []*stub.Stub
}

func (e *NoMatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "request %s %s did not match any registered stub", e.Method, e.URL)
	if len(e.Stubs) == 0 {
		b.WriteString(" (no stubs registered)")
		return b.String()
	}
	b.WriteString("; registered stubs:")
	for _, s := range e.Stubs {
		fmt.Fprintf(&b, "\n  - %s", s)
	}
	return b.String()
}

func (e *NoMatchError) Unwrap() error { return ErrNoMatch }

// AssertionError reports either a teardown check that found unfired stubs
// or a call-count assertion that found a mismatch.
type AssertionError struct {
	// URL, Expected and Actual describe a call-count mismatch.
	URL      string
	Expected int
	Actual   int

	// Unfired lists the "METHOD URL" identities of stubs that were never
	// matched, for teardown failures.
	Unfired []string
}

func (e *AssertionError) Error() string {
	if len(e.Unfired) > 0 {
		return fmt.Sprintf("not all registered stubs were called: %s", strings.Join(e.Unfired, ", "))
	}
	return fmt.Sprintf("expected %s to be called %d times, got %d", e.URL, e.Expected, e.Actual)
}

func (e *AssertionError) Unwrap() error { return ErrAssertion }
