package matching

import (
	"encoding/json"

	"github.com/ohler55/ojg/jp"
)

// MatchJSONPathConditions evaluates JSONPath conditions against a JSON body.
// Each map key is a JSONPath expression and its value is compared, with JSON
// normalization, against the first value the path selects. All conditions
// must match. A body that is not valid JSON never matches, and an invalid
// JSONPath expression is a no-match rather than an error.
//
// A condition value of the form map{"exists": bool} is an existence check:
// {"exists": true} requires the path to select at least one value and
// {"exists": false} requires it to select none.
func MatchJSONPathConditions(conditions map[string]any, body []byte) bool {
	if len(conditions) == 0 {
		return true
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return false
	}

	for path, expected := range conditions {
		if !matchSingleJSONPath(path, expected, data) {
			return false
		}
	}
	return true
}

func matchSingleJSONPath(path string, expected any, data any) bool {
	expr, err := jp.ParseString(path)
	if err != nil {
		return false
	}

	results := expr.Get(data)

	if wantExists, ok := existenceCheck(expected); ok {
		return wantExists == (len(results) > 0)
	}

	if len(results) == 0 {
		return false
	}
	return JSONValueEqual(results[0], expected)
}

// existenceCheck recognizes the {"exists": bool} condition form.
func existenceCheck(expected any) (want bool, ok bool) {
	m, isMap := expected.(map[string]any)
	if !isMap || len(m) != 1 {
		return false, false
	}
	v, present := m["exists"]
	if !present {
		return false, false
	}
	b, isBool := v.(bool)
	return b, isBool
}
