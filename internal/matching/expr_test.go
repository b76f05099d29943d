package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvalBodyExpr(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		body       string
		want       bool
	}{
		{
			name:       "raw body comparison",
			expression: `body == "ping"`,
			body:       "ping",
			want:       true,
		},
		{
			name:       "raw body contains",
			expression: `body contains "order"`,
			body:       `{"type": "order.created"}`,
			want:       true,
		},
		{
			name:       "decoded JSON field",
			expression: `json.amount > 10`,
			body:       `{"amount": 25}`,
			want:       true,
		},
		{
			name:       "decoded JSON field below threshold",
			expression: `json.amount > 10`,
			body:       `{"amount": 5}`,
			want:       false,
		},
		{
			name:       "json is nil for non-JSON body",
			expression: `json == nil`,
			body:       "plain text",
			want:       true,
		},
		{
			name:       "non-boolean result is no-match",
			expression: `json.amount`,
			body:       `{"amount": 25}`,
			want:       false,
		},
		{
			name:       "compile error is no-match",
			expression: `body ==`,
			body:       "x",
			want:       false,
		},
		{
			name:       "runtime error is no-match",
			expression: `json.a.b.c == 1`,
			body:       `{"a": 1}`,
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvalBodyExpr(tt.expression, []byte(tt.body)))
		})
	}
}

func TestEvalBodyExprCachesPrograms(t *testing.T) {
	// Same expression evaluated twice hits the compile cache; behavior
	// must be identical either way.
	assert.True(t, EvalBodyExpr(`body == "a"`, []byte("a")))
	assert.False(t, EvalBodyExpr(`body == "a"`, []byte("b")))

	programMu.RLock()
	_, cached := programCache[`body == "a"`]
	programMu.RUnlock()
	assert.True(t, cached)
}
