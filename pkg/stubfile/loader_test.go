package stubfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "stubs.yaml", `
stubs:
  - method: GET
    url: http://api.com/users
    response:
      status: 200
      contentType: text/plain
      headers:
        X-Source: fixture
      body: "hello"
  - method: POST
    url: http://api.com/users?dry_run=true
    matchQuery: true
    persistent: true
    response:
      status: 201
`)

	stubs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, stubs, 2)

	first := stubs[0]
	assert.Equal(t, "GET", first.Method)
	assert.Equal(t, "http://api.com/users", first.URL)
	assert.Equal(t, 200, first.Status)
	assert.Equal(t, "text/plain", first.ContentType)
	assert.Equal(t, "hello", string(first.Body))
	assert.Equal(t, "fixture", first.Header.Get("X-Source"))
	assert.False(t, first.Persistent)

	second := stubs[1]
	assert.Equal(t, "POST", second.Method)
	require.NotNil(t, second.MatchQuery)
	assert.True(t, *second.MatchQuery)
	assert.True(t, second.Persistent)
	assert.Equal(t, 201, second.Status)
}

func TestLoadFileStructuredBodyBecomesJSON(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "stubs.yaml", `
stubs:
  - url: http://api.com/articles
    response:
      body:
        - id: 1
          name: My Great Article
        - id: 2
          name: Another
`)

	stubs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, stubs, 1)

	s := stubs[0]
	assert.Equal(t, "GET", s.Method, "method defaults to GET")
	assert.Equal(t, "application/json", s.ContentType)
	assert.JSONEq(t,
		`[{"id": 1, "name": "My Great Article"}, {"id": 2, "name": "Another"}]`,
		string(s.Body))
}

func TestLoadFileURLPattern(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "stubs.yaml", `
stubs:
  - method: GET
    urlPattern: '^http://api\.com/users/\d+$'
    response:
      status: 200
`)

	stubs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, stubs, 1)
	require.NotNil(t, stubs[0].URLPattern)
	assert.True(t, stubs[0].URLPattern.MatchString("http://api.com/users/42"))
}

func TestLoadFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing url",
			yaml:    "stubs:\n  - method: GET\n",
			wantErr: "one of url or urlPattern is required",
		},
		{
			name:    "both url and pattern",
			yaml:    "stubs:\n  - url: http://a.com\n    urlPattern: '.*'\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "bad pattern",
			yaml:    "stubs:\n  - urlPattern: '['\n",
			wantErr: "compiling urlPattern",
		},
		{
			name:    "malformed yaml",
			yaml:    "stubs: [",
			wantErr: "parsing stub file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, t.TempDir(), "stubs.yaml", tt.yaml)
			_, err := LoadFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading stub file")
}

func TestLoadGlobSortedAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))

	writeFixture(t, dir, "b.yaml", `
stubs:
  - url: http://api.com/from-b
`)
	writeFixture(t, dir, "a.yaml", `
stubs:
  - url: http://api.com/from-a
`)
	writeFixture(t, filepath.Join(dir, "nested"), "c.yaml", `
stubs:
  - url: http://api.com/from-c
`)

	stubs, err := LoadGlob(filepath.Join(dir, "**", "*.yaml"))
	require.NoError(t, err)
	require.Len(t, stubs, 3)

	// Lexicographic file order keeps registration deterministic.
	assert.Equal(t, "http://api.com/from-a", stubs[0].URL)
	assert.Equal(t, "http://api.com/from-b", stubs[1].URL)
	assert.Equal(t, "http://api.com/from-c", stubs[2].URL)
}

func TestLoadGlobNoMatches(t *testing.T) {
	stubs, err := LoadGlob(filepath.Join(t.TempDir(), "*.yaml"))
	require.NoError(t, err)
	assert.Empty(t, stubs)
}
