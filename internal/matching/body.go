package matching

import (
	"encoding/json"
	"net/url"
	"reflect"
	"regexp"
	"strings"
)

// MatchBodyEquals checks if the body exactly equals the expected value.
// An empty expected value only matches an empty body.
func MatchBodyEquals(body []byte, expected string) bool {
	return string(body) == expected
}

// MatchBodyContains checks if the body contains the substring.
func MatchBodyContains(body []byte, contains string) bool {
	if contains == "" {
		return true
	}
	return strings.Contains(string(body), contains)
}

// MatchBodyPattern checks if the request body matches a regex pattern.
// Uses Go's regexp package with RE2 syntax. An invalid pattern is a
// no-match, not an error.
func MatchBodyPattern(pattern string, body []byte) bool {
	if pattern == "" {
		return false
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.Match(body)
}

// MatchURLEncodedBody decodes the body as an application/x-www-form-urlencoded
// form and compares it against the expected values as a multiset. A body that
// cannot be decoded is a no-match.
func MatchURLEncodedBody(body []byte, expected url.Values) bool {
	got, err := url.ParseQuery(string(body))
	if err != nil {
		return false
	}
	return MatchQueryValues(expected, got)
}

// MatchJSONBody decodes the body as JSON and compares it structurally against
// the expected value. Both sides are normalized through a JSON round-trip so
// numeric types and map ordering do not matter. A body that is not valid
// JSON is a no-match.
func MatchJSONBody(body []byte, expected any) bool {
	var got any
	if err := json.Unmarshal(body, &got); err != nil {
		return false
	}
	return JSONValueEqual(got, expected)
}

// JSONValueEqual compares two values for structural JSON equality. Both are
// normalized through a marshal/unmarshal round-trip first, so int vs float64
// and struct vs map representations of the same document compare equal.
func JSONValueEqual(a, b any) bool {
	an, ok := normalizeJSON(a)
	if !ok {
		return false
	}
	bn, ok := normalizeJSON(b)
	if !ok {
		return false
	}
	return reflect.DeepEqual(an, bn)
}

func normalizeJSON(v any) (any, bool) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}
