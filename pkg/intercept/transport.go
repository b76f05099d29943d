package intercept

import (
	"net/http"

	"github.com/getmockd/httpstub/pkg/stub"
)

// transport is the http.RoundTripper installed while a controller is
// active. It routes every request through the controller's resolver and
// delegates passthrough requests to the transport it replaced.
type transport struct {
	controller *Controller

	// real is the transport this interceptor replaced, used for
	// passthrough delegation. When nil the controller's saved default
	// transport is used, so clients built by Controller.Client never loop
	// back into the interceptor.
	real http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	snap, err := snapshotRequest(req)
	if err != nil {
		return nil, err
	}

	resp, passthrough, err := t.controller.Resolve(snap)
	if err != nil {
		return nil, err
	}

	if passthrough {
		realResp, realErr := t.realTransport().RoundTrip(req)
		t.recordPassthrough(snap, realResp, realErr)
		return realResp, realErr
	}

	return toHTTPResponse(resp, req), nil
}

// realTransport returns the transport used for passthrough requests.
func (t *transport) realTransport() http.RoundTripper {
	if t.real != nil {
		return t.real
	}
	if saved := t.controller.savedDefaultTransport(); saved != nil {
		return saved
	}
	return http.DefaultTransport
}

// recordPassthrough logs a passthrough exchange with the real outcome. The
// response body is not drained: consuming it belongs to the caller.
func (t *transport) recordPassthrough(snap *stub.Request, resp *http.Response, err error) {
	var snapResp *stub.Response
	if resp != nil {
		snapResp = &stub.Response{StatusCode: resp.StatusCode, Header: resp.Header}
	}
	t.controller.record(snap, "", snapResp, err, true)
}
