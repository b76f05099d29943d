// Package stub defines the data model for client-side HTTP stubbing: the
// Stub type describing which requests a registered expectation matches and
// what response or error it produces, the body-matcher constructors, and the
// ordered Registry that stubs and passthrough rules live in.
//
// Registration order is semantically significant. When several stubs share
// the same (method, URL) identity they form a sequence: the first matching
// call is served by the first stub, the second call by the second, and once
// every stub in the sequence has been used the last one keeps serving.
package stub
