// Package matching provides the stateless predicates the resolution engine
// evaluates against intercepted requests: URL comparison and normalization,
// querystring multiset equality, and the body-decoding matchers (substring,
// regex, URL-encoded form, JSON document, JSONPath, expression).
//
// Every predicate in this package is pure and total: a body that cannot be
// decoded, an invalid regex, or a broken JSONPath expression yields a
// no-match result, never a panic or an error.
package matching
