// Package stubfile loads stub definitions from YAML fixture files, so test
// suites can share canned responses instead of registering every stub in
// code. A fixture holds a list of stubs under a "stubs" key; response bodies
// may be plain strings or YAML mappings/sequences, which are serialized to
// JSON the way config bodies are.
package stubfile
