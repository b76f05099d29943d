package stubfile

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/httpstub/pkg/stub"
)

// fileContent is the on-disk shape of a stub fixture.
type fileContent struct {
	Stubs []stubDef `yaml:"stubs"`
}

// stubDef is one stub definition in a fixture file.
type stubDef struct {
	Method     string       `yaml:"method"`
	URL        string       `yaml:"url"`
	URLPattern string       `yaml:"urlPattern"`
	MatchQuery *bool        `yaml:"matchQuery"`
	Persistent bool         `yaml:"persistent"`
	Response   *responseDef `yaml:"response"`
}

// responseDef describes the stub's response. Body accepts a scalar (used
// verbatim) or a mapping/sequence (serialized to JSON, with the content
// type defaulting to application/json).
type responseDef struct {
	Status      int               `yaml:"status"`
	Headers     map[string]string `yaml:"headers"`
	ContentType string            `yaml:"contentType"`
	Body        any               `yaml:"body"`
}

// LoadFile loads every stub defined in one fixture file.
func LoadFile(path string) ([]*stub.Stub, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stub file: %w", err)
	}

	var content fileContent
	if err := yaml.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("parsing stub file %s: %w", path, err)
	}

	stubs := make([]*stub.Stub, 0, len(content.Stubs))
	for i, def := range content.Stubs {
		s, err := def.toStub()
		if err != nil {
			return nil, fmt.Errorf("%s: stub %d: %w", path, i, err)
		}
		stubs = append(stubs, s)
	}
	return stubs, nil
}

// LoadGlob expands a glob pattern (doublestar syntax, ** supported) and
// loads every matching fixture file. Matches are sorted so registration
// order is deterministic.
func LoadGlob(pattern string) ([]*stub.Stub, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern: %w", err)
	}
	sort.Strings(matches)

	var all []*stub.Stub
	for _, path := range matches {
		stubs, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, stubs...)
	}
	return all, nil
}

func (d stubDef) toStub() (*stub.Stub, error) {
	if d.URL == "" && d.URLPattern == "" {
		return nil, fmt.Errorf("one of url or urlPattern is required")
	}
	if d.URL != "" && d.URLPattern != "" {
		return nil, fmt.Errorf("url and urlPattern are mutually exclusive")
	}

	method := d.Method
	if method == "" {
		method = "GET"
	}

	var s *stub.Stub
	if d.URLPattern != "" {
		re, err := regexp.Compile(d.URLPattern)
		if err != nil {
			return nil, fmt.Errorf("compiling urlPattern: %w", err)
		}
		s = stub.NewPattern(method, re)
	} else {
		s = stub.New(method, d.URL)
	}

	s.MatchQuery = d.MatchQuery
	s.Persistent = d.Persistent

	if d.Response != nil {
		if err := applyResponse(s, d.Response); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func applyResponse(s *stub.Stub, r *responseDef) error {
	if r.Status != 0 {
		s.Status = r.Status
	}
	for k, v := range r.Headers {
		s.WithHeader(k, v)
	}
	if r.ContentType != "" {
		s.ContentType = r.ContentType
	}

	switch body := r.Body.(type) {
	case nil:
	case string:
		s.Body = []byte(body)
	default:
		// Mapping or sequence bodies become JSON documents.
		encoded, err := json.Marshal(normalizeYAML(body))
		if err != nil {
			return fmt.Errorf("marshaling body to JSON: %w", err)
		}
		s.Body = encoded
		if s.ContentType == "" {
			s.ContentType = "application/json"
		}
	}
	return nil
}

// normalizeYAML converts yaml.v3's map[string]any/[]any decoding output into
// a JSON-marshalable tree, stringifying any non-string map keys.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}
