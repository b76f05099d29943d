package stub

import (
	"net/url"

	"github.com/getmockd/httpstub/internal/matching"
)

// MatchBodyEquals matches a body exactly equal to the expected string.
func MatchBodyEquals(expected string) BodyMatcher {
	return func(body []byte) bool {
		return matching.MatchBodyEquals(body, expected)
	}
}

// MatchBodyContains matches a body containing the substring.
func MatchBodyContains(substr string) BodyMatcher {
	return func(body []byte) bool {
		return matching.MatchBodyContains(body, substr)
	}
}

// MatchBodyPattern matches a body against a regex pattern (RE2 syntax).
// An invalid pattern never matches.
func MatchBodyPattern(pattern string) BodyMatcher {
	return func(body []byte) bool {
		return matching.MatchBodyPattern(pattern, body)
	}
}

// MatchURLEncodedBody matches a URL-encoded form body against the expected
// values as a multiset of (key, value) pairs. An undecodable body never
// matches.
func MatchURLEncodedBody(expected url.Values) BodyMatcher {
	return func(body []byte) bool {
		return matching.MatchURLEncodedBody(body, expected)
	}
}

// MatchJSONBody matches a JSON body structurally equal to the expected
// value. A body that is not valid JSON never matches.
func MatchJSONBody(expected any) BodyMatcher {
	return func(body []byte) bool {
		return matching.MatchJSONBody(body, expected)
	}
}

// MatchJSONPath matches a JSON body against a set of JSONPath conditions,
// all of which must hold. Condition values of the form {"exists": bool}
// perform existence checks.
func MatchJSONPath(conditions map[string]any) BodyMatcher {
	return func(body []byte) bool {
		return matching.MatchJSONPathConditions(conditions, body)
	}
}

// MatchExpr matches a body when the expr-lang expression evaluates to true.
// The expression sees "body" (the raw body as a string) and "json" (the body
// decoded as JSON, or nil).
func MatchExpr(expression string) BodyMatcher {
	return func(body []byte) bool {
		return matching.EvalBodyExpr(expression, body)
	}
}
