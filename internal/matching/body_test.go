package matching

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchBodyEquals(t *testing.T) {
	assert.True(t, MatchBodyEquals([]byte("hello"), "hello"))
	assert.False(t, MatchBodyEquals([]byte("hello"), "world"))
	// An explicit empty expectation only matches an empty body.
	assert.True(t, MatchBodyEquals(nil, ""))
	assert.False(t, MatchBodyEquals([]byte("anything"), ""))
}

func TestMatchBodyContains(t *testing.T) {
	assert.True(t, MatchBodyContains([]byte(`{"name":"John"}`), "John"))
	assert.False(t, MatchBodyContains([]byte(`{"name":"John"}`), "Jane"))
	assert.True(t, MatchBodyContains([]byte("anything"), ""))
}

func TestMatchBodyPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		body    []byte
		want    bool
	}{
		{
			name:    "simple match",
			pattern: `"email":\s*"[^"]+"`,
			body:    []byte(`{"email": "test@example.com"}`),
			want:    true,
		},
		{
			name:    "no match",
			pattern: `"email":\s*"[^"]+"`,
			body:    []byte(`{"name": "John"}`),
			want:    false,
		},
		{
			name:    "empty pattern never matches",
			pattern: "",
			body:    []byte("any content"),
			want:    false,
		},
		{
			name:    "invalid regex pattern",
			pattern: `[invalid`,
			body:    []byte("any content"),
			want:    false,
		},
		{
			name:    "case insensitive flag",
			pattern: `(?i)error`,
			body:    []byte("An ERROR occurred"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchBodyPattern(tt.pattern, tt.body))
		})
	}
}

func TestMatchURLEncodedBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected url.Values
		want     bool
	}{
		{
			name:     "exact match",
			body:     "username=alice&password=secret",
			expected: url.Values{"username": {"alice"}, "password": {"secret"}},
			want:     true,
		},
		{
			name:     "order independent",
			body:     "password=secret&username=alice",
			expected: url.Values{"username": {"alice"}, "password": {"secret"}},
			want:     true,
		},
		{
			name:     "value mismatch",
			body:     "username=bob",
			expected: url.Values{"username": {"alice"}},
			want:     false,
		},
		{
			name:     "extra field in body",
			body:     "username=alice&extra=1",
			expected: url.Values{"username": {"alice"}},
			want:     false,
		},
		{
			name:     "undecodable body",
			body:     "a=%zz",
			expected: url.Values{"a": {"1"}},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchURLEncodedBody([]byte(tt.body), tt.expected))
		})
	}
}

func TestMatchJSONBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected any
		want     bool
	}{
		{
			name:     "object match",
			body:     `{"id": 1, "name": "Test"}`,
			expected: map[string]any{"id": 1, "name": "Test"},
			want:     true,
		},
		{
			name:     "key order irrelevant",
			body:     `{"name": "Test", "id": 1}`,
			expected: map[string]any{"id": 1, "name": "Test"},
			want:     true,
		},
		{
			name:     "nested mismatch",
			body:     `{"user": {"id": 1}}`,
			expected: map[string]any{"user": map[string]any{"id": 2}},
			want:     false,
		},
		{
			name:     "array match",
			body:     `[1, 2, 3]`,
			expected: []int{1, 2, 3},
			want:     true,
		},
		{
			name:     "not valid JSON",
			body:     `{"broken"`,
			expected: map[string]any{},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchJSONBody([]byte(tt.body), tt.expected))
		})
	}
}

func TestJSONValueEqual(t *testing.T) {
	// Numeric types normalize through the JSON round-trip.
	assert.True(t, JSONValueEqual(1, 1.0))
	assert.True(t, JSONValueEqual(map[string]any{"a": 1}, map[string]any{"a": float64(1)}))
	assert.False(t, JSONValueEqual(1, 2))

	// Structs compare against their map representation.
	type payload struct {
		Name string `json:"name"`
	}
	assert.True(t, JSONValueEqual(payload{Name: "x"}, map[string]any{"name": "x"}))
}
