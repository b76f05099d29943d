package stub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/getmockd/httpstub/internal/matching"
)

// MethodAny matches any HTTP method.
const MethodAny = "*"

// Request is an immutable snapshot of an outgoing request, taken by the
// interceptor before resolution. The body has already been drained from the
// underlying *http.Request and restored there.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// Query returns the parsed query parameters of the request URL.
func (r *Request) Query() url.Values {
	if r.URL == nil {
		return url.Values{}
	}
	return r.URL.Query()
}

// Response is the response produced for an intercepted request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Callback computes a response from a request snapshot at resolution time.
// A returned error propagates to the intercepted caller unchanged.
type Callback func(*Request) (*Response, error)

// BodyMatcher is a predicate over the raw request body. Every matcher
// attached to a stub must pass for the stub to match. Matchers return false
// for bodies they cannot decode instead of failing.
type BodyMatcher func(body []byte) bool

// Stub is one registered expectation: the requests it matches and the
// response or error it produces.
//
// Exactly one of URL and URLPattern is set. Exactly one response form is
// used, checked in this order: Err, Callback, JSON, then the static
// Status/Body/Header fields.
type Stub struct {
	// ID uniquely identifies the stub in call records and diagnostics.
	ID string

	// Method is the exact HTTP method to match, or MethodAny.
	Method string

	// URL is the literal URL to match, normalized at construction
	// (lowercased scheme and host, trailing slash trimmed).
	URL string

	// URLPattern, when set, is matched against the full request URL
	// including its query string.
	URLPattern *regexp.Regexp

	// MatchQuery controls querystring comparison for literal URLs.
	// nil means auto: enabled iff the literal URL itself carries a query
	// string. It is never auto-enabled for pattern stubs.
	MatchQuery *bool

	// BodyMatchers are evaluated in order; all must pass.
	BodyMatchers []BodyMatcher

	// Static response fields. Status defaults to 200.
	Status      int
	Header      http.Header
	Body        []byte
	ContentType string

	// JSON, when non-nil, is serialized as the response body and forces
	// Content-Type to application/json unless ContentType overrides it.
	JSON any

	// Err, when non-nil, propagates to the intercepted caller in place of
	// a response.
	Err error

	// Callback, when non-nil, computes the response at resolution time.
	Callback Callback

	// Persistent stubs never rotate out of a sequence: they stay eligible
	// on the first scan pass no matter how often they have been used.
	Persistent bool

	// CallCount is incremented on each successful match.
	CallCount int
}

// New creates a stub matching a literal URL.
func New(method, rawURL string) *Stub {
	return &Stub{
		ID:     uuid.NewString(),
		Method: strings.ToUpper(method),
		URL:    matching.NormalizeURL(rawURL),
	}
}

// NewPattern creates a stub whose URL is matched by a compiled regular
// expression against the full request URL, query string included.
func NewPattern(method string, pattern *regexp.Regexp) *Stub {
	return &Stub{
		ID:         uuid.NewString(),
		Method:     strings.ToUpper(method),
		URLPattern: pattern,
	}
}

// WithStatus sets the response status code.
func (s *Stub) WithStatus(code int) *Stub {
	s.Status = code
	return s
}

// WithBody sets a static response body.
func (s *Stub) WithBody(body string) *Stub {
	s.Body = []byte(body)
	return s
}

// WithJSON sets a JSON response value. It is serialized at resolution time
// and the Content-Type is forced to application/json unless overridden.
func (s *Stub) WithJSON(v any) *Stub {
	s.JSON = v
	return s
}

// WithHeader adds a response header.
func (s *Stub) WithHeader(key, value string) *Stub {
	if s.Header == nil {
		s.Header = make(http.Header)
	}
	s.Header.Set(key, value)
	return s
}

// WithContentType sets the response Content-Type.
func (s *Stub) WithContentType(ct string) *Stub {
	s.ContentType = ct
	return s
}

// WithError makes the stub propagate err in place of a response.
func (s *Stub) WithError(err error) *Stub {
	s.Err = err
	return s
}

// WithCallback makes the stub compute its response at resolution time.
func (s *Stub) WithCallback(cb Callback) *Stub {
	s.Callback = cb
	return s
}

// WithMatchQuery overrides the automatic querystring policy.
func (s *Stub) WithMatchQuery(on bool) *Stub {
	s.MatchQuery = &on
	return s
}

// WithBodyMatcher appends a body matcher. All attached matchers must pass.
func (s *Stub) WithBodyMatcher(m BodyMatcher) *Stub {
	s.BodyMatchers = append(s.BodyMatchers, m)
	return s
}

// WithPersistent marks the stub as persistent.
func (s *Stub) WithPersistent() *Stub {
	s.Persistent = true
	return s
}

// Matches reports whether the stub matches the request snapshot: the method
// matches (or is MethodAny), the URL matches, the querystring policy holds,
// and every body matcher passes.
func (s *Stub) Matches(req *Request) bool {
	if req == nil {
		return false
	}
	if !matching.MatchMethod(s.Method, req.Method) {
		return false
	}

	if s.URLPattern != nil {
		if !matching.MatchURLPattern(s.URLPattern, req.URL) {
			return false
		}
	} else {
		if !matching.MatchURL(s.URL, req.URL) {
			return false
		}
		if s.matchQueryEnabled() {
			want := matching.ParseQuery(rawQueryOf(s.URL))
			if !matching.MatchQueryValues(want, req.Query()) {
				return false
			}
		}
	}

	for _, m := range s.BodyMatchers {
		if m == nil || !m(req.Body) {
			return false
		}
	}
	return true
}

func (s *Stub) matchQueryEnabled() bool {
	if s.MatchQuery != nil {
		return *s.MatchQuery
	}
	if s.URLPattern != nil {
		return false
	}
	return rawQueryOf(s.URL) != ""
}

func rawQueryOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.RawQuery
}

// Identity returns the (method, URL) pair that Replace, Upsert and Remove
// use to locate stubs. Pattern stubs use the pattern source as the URL half.
func (s *Stub) Identity() (method, u string) {
	if s.URLPattern != nil {
		return s.Method, s.URLPattern.String()
	}
	return s.Method, s.URL
}

// SameIdentity reports whether two stubs share the same identity.
func (s *Stub) SameIdentity(o *Stub) bool {
	if o == nil {
		return false
	}
	sm, su := s.Identity()
	om, ou := o.Identity()
	return strings.EqualFold(sm, om) && su == ou
}

// BuildResponse resolves the stub's response specification for the given
// request. Error stubs return their stored error, callback stubs invoke the
// callback; both propagate to the intercepted caller unchanged.
func (s *Stub) BuildResponse(req *Request) (*Response, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Callback != nil {
		return s.Callback(req)
	}

	status := s.Status
	if status == 0 {
		status = http.StatusOK
	}

	header := make(http.Header, len(s.Header)+1)
	for k, vs := range s.Header {
		header[k] = append([]string(nil), vs...)
	}

	body := s.Body
	contentType := s.ContentType
	if s.JSON != nil {
		encoded, err := json.Marshal(s.JSON)
		if err != nil {
			return nil, fmt.Errorf("marshaling JSON response body: %w", err)
		}
		body = encoded
		if contentType == "" {
			contentType = "application/json"
		}
	}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}

	return &Response{
		StatusCode: status,
		Header:     header,
		Body:       append([]byte(nil), body...),
	}, nil
}

// String renders the stub for diagnostics, e.g. in no-match errors.
func (s *Stub) String() string {
	m, u := s.Identity()
	return fmt.Sprintf("%s %s (calls: %d)", m, u, s.CallCount)
}
