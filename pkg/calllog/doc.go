// Package calllog records every exchange the interceptor resolves: matched
// stubs, passthrough requests, errored specs, and no-match attempts. The log
// is append-only and index-stable; entries are never mutated in place and
// are cleared only by an explicit reset.
package calllog
