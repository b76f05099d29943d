package intercept

import (
	"net/http"

	"github.com/getmockd/httpstub/pkg/calllog"
	"github.com/getmockd/httpstub/pkg/stub"
)

// Resolve maps one request snapshot to a response, an error, or a
// passthrough decision. It is the single entry point the transport hook
// calls for every outgoing request while the controller is active.
//
// Passthrough rules are checked first; a covered request is not matched
// against the stub list and the caller must perform the real round trip
// (the transport records it afterwards, see transport.RoundTrip). Otherwise
// the registry scan picks a stub per sequence semantics, its response spec
// is resolved, and the exchange is recorded. When nothing matches, the
// attempt is recorded and a *NoMatchError is returned.
func (c *Controller) Resolve(req *stub.Request) (resp *stub.Response, passthrough bool, err error) {
	if c.registry.Passthrough(req.URL) {
		c.logger.Debug("passthrough", "method", req.Method, "url", req.URL.String())
		return nil, true, nil
	}

	matched, ok := c.registry.Resolve(req)
	if !ok {
		noMatch := &NoMatchError{
			Method: req.Method,
			URL:    req.URL.String(),
			Stubs:  c.registry.Stubs(),
		}
		c.record(req, "", nil, noMatch, false)
		c.logger.Debug("no match", "method", req.Method, "url", req.URL.String())
		return nil, false, noMatch
	}

	resp, err = matched.BuildResponse(req)
	if err != nil {
		c.record(req, matched.ID, nil, err, false)
		c.logger.Debug("stub errored", "method", req.Method, "url", req.URL.String(), "stub", matched.ID, "err", err)
		return nil, false, err
	}

	// Callback-built responses may leave the status or headers zero valued.
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}

	// The post-processing hook runs exactly once per resolved,
	// non-passthrough, non-error response.
	if c.responseCallback != nil {
		resp = c.responseCallback(resp)
	}

	c.record(req, matched.ID, resp, nil, false)
	c.logger.Debug("matched", "method", req.Method, "url", req.URL.String(), "stub", matched.ID, "status", resp.StatusCode)
	return resp, false, nil
}

// record appends one exchange to the call log.
func (c *Controller) record(req *stub.Request, stubID string, resp *stub.Response, err error, passthrough bool) {
	entry := &calllog.Entry{
		Method:         req.Method,
		URL:            req.URL.String(),
		QueryString:    req.URL.RawQuery,
		RequestHeaders: req.Header,
		RequestBody:    string(req.Body),
		StubID:         stubID,
		Passthrough:    passthrough,
	}
	if resp != nil {
		entry.StatusCode = resp.StatusCode
		entry.ResponseHeaders = resp.Header
		entry.ResponseBody = string(resp.Body)
	}
	if err != nil {
		entry.Error = err.Error()
	}
	c.calls.Log(entry)
}
