package calllog

import "time"

// Entry captures one resolved exchange: the intercepted request and the
// response, error, or passthrough outcome it produced.
type Entry struct {
	// ID is a unique identifier for the entry.
	ID string `json:"id"`

	// Timestamp is when the request was intercepted.
	Timestamp time.Time `json:"timestamp"`

	// Method is the request method.
	Method string `json:"method"`

	// URL is the full request URL, query string included.
	URL string `json:"url"`

	// QueryString is the raw query string.
	QueryString string `json:"queryString,omitempty"`

	// RequestHeaders are the request headers (multi-value).
	RequestHeaders map[string][]string `json:"requestHeaders,omitempty"`

	// RequestBody is the request body content.
	RequestBody string `json:"requestBody,omitempty"`

	// StubID is the ID of the stub that served the request. Empty for
	// passthrough and no-match entries.
	StubID string `json:"stubId,omitempty"`

	// StatusCode is the response status. Zero when the exchange errored
	// before a response existed.
	StatusCode int `json:"statusCode,omitempty"`

	// ResponseHeaders are the response headers (multi-value).
	ResponseHeaders map[string][]string `json:"responseHeaders,omitempty"`

	// ResponseBody is the response body content.
	ResponseBody string `json:"responseBody,omitempty"`

	// Error holds the error message when the exchange produced an error
	// instead of a response.
	Error string `json:"error,omitempty"`

	// Passthrough marks requests that bypassed interception and were sent
	// to their real destination.
	Passthrough bool `json:"passthrough,omitempty"`
}
