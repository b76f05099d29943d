package matching

import (
	"net/url"
	"sort"
)

// MatchQueryValues reports whether two query strings carry the same multiset
// of (key, value) pairs. Order is irrelevant, duplicate counts matter: a
// stub registered with ?a=1&a=2 matches ?a=2&a=1 but not ?a=1.
func MatchQueryValues(want, got url.Values) bool {
	if len(want) != len(got) {
		return false
	}
	for key, wv := range want {
		gv, ok := got[key]
		if !ok || len(gv) != len(wv) {
			return false
		}
		ws := append([]string(nil), wv...)
		gs := append([]string(nil), gv...)
		sort.Strings(ws)
		sort.Strings(gs)
		for i := range ws {
			if ws[i] != gs[i] {
				return false
			}
		}
	}
	return true
}

// ParseQuery parses a raw query string, returning an empty Values on error
// so malformed input degrades to a no-match instead of failing.
func ParseQuery(raw string) url.Values {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return url.Values{}
	}
	return values
}
