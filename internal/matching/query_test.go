package matching

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchQueryValues(t *testing.T) {
	tests := []struct {
		name string
		want string
		got  string
		eq   bool
	}{
		{
			name: "identical",
			want: "foo=1&bar=2",
			got:  "foo=1&bar=2",
			eq:   true,
		},
		{
			name: "order independent",
			want: "foo=1&bar=2",
			got:  "bar=2&foo=1",
			eq:   true,
		},
		{
			name: "duplicate keys order independent",
			want: "a=1&a=2",
			got:  "a=2&a=1",
			eq:   true,
		},
		{
			name: "duplicate counts matter",
			want: "a=1&a=1",
			got:  "a=1",
			eq:   false,
		},
		{
			name: "different value",
			want: "foo=1",
			got:  "foo=2",
			eq:   false,
		},
		{
			name: "missing key",
			want: "foo=1&bar=2",
			got:  "foo=1",
			eq:   false,
		},
		{
			name: "extra key",
			want: "foo=1",
			got:  "foo=1&bar=2",
			eq:   false,
		},
		{
			name: "both empty",
			want: "",
			got:  "",
			eq:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := url.ParseQuery(tt.want)
			g, _ := url.ParseQuery(tt.got)
			assert.Equal(t, tt.eq, MatchQueryValues(w, g))
		})
	}
}

func TestParseQuery(t *testing.T) {
	values := ParseQuery("a=1&b=2")
	assert.Equal(t, "1", values.Get("a"))
	assert.Equal(t, "2", values.Get("b"))

	// Malformed input degrades to empty values, not an error.
	assert.Empty(t, ParseQuery("a=%zz"))
}
