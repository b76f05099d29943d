package intercept

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getmockd/httpstub/pkg/stub"
)

// snapshotRequest builds an immutable request snapshot, draining the body
// and restoring it so the caller's request remains usable for passthrough
// delegation.
func snapshotRequest(r *http.Request) (*stub.Request, error) {
	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		drained, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(drained))
		body = drained
	}
	return &stub.Request{
		Method: strings.ToUpper(r.Method),
		URL:    r.URL,
		Header: r.Header.Clone(),
		Body:   body,
	}, nil
}

// toHTTPResponse converts a resolved snapshot into the *http.Response shape
// net/http clients expect.
func toHTTPResponse(resp *stub.Response, req *http.Request) *http.Response {
	header := resp.Header
	if header == nil {
		header = make(http.Header)
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		StatusCode:    resp.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       req,
	}
}
