package stub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchBodyEqualsStrict(t *testing.T) {
	m := MatchBodyEquals("hello")
	assert.True(t, m([]byte("hello")))
	assert.False(t, m([]byte("hello world")))

	// An empty expectation demands an empty body.
	empty := MatchBodyEquals("")
	assert.True(t, empty(nil))
	assert.True(t, empty([]byte("")))
	assert.False(t, empty([]byte("anything")))
}
