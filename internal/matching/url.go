package matching

import (
	"net/url"
	"regexp"
	"strings"
)

// NormalizeURL returns the canonical form of a literal stub URL used for
// comparison and identity: scheme and host are lowercased and a trailing
// slash on the path is trimmed. The query string is preserved.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// StripQuery returns the URL without its query string and fragment.
func StripQuery(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		return raw[:i]
	}
	return raw
}

// MatchURL compares a literal stub URL against a request URL. Both sides are
// normalized and compared without their query strings; the querystring
// policy is applied separately by the caller.
func MatchURL(stubURL string, reqURL *url.URL) bool {
	if reqURL == nil {
		return false
	}
	return NormalizeURL(StripQuery(stubURL)) == NormalizeURL(StripQuery(reqURL.String()))
}

// MatchURLPattern matches the full request URL, query string included,
// against a compiled pattern.
func MatchURLPattern(pattern *regexp.Regexp, reqURL *url.URL) bool {
	if pattern == nil || reqURL == nil {
		return false
	}
	return pattern.MatchString(reqURL.String())
}

// MatchMethod checks if the request method matches. An empty or "*" expected
// method matches anything.
func MatchMethod(expected, actual string) bool {
	if expected == "" || expected == "*" {
		return true
	}
	return strings.EqualFold(expected, actual)
}
