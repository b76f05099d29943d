// Package intercept replaces outbound HTTP traffic with pre-registered
// stub responses for the lifetime of a test.
//
// The seam is http.RoundTripper: while a Controller is active it swaps
// http.DefaultTransport (and the transport of any client handed to
// InterceptClient) for an interceptor that resolves every request against
// the controller's stub registry. Requests covered by a passthrough rule
// are delegated to the transport the interceptor replaced; everything else
// must match a stub or the round trip fails with a NoMatchError.
//
//	func TestFetchArticles(t *testing.T) {
//		c := intercept.StartT(t)
//		c.Add(stub.New("GET", "https://api.example.com/articles").
//			WithJSON([]map[string]any{{"id": 1}}))
//
//		// code under test issues requests through http.DefaultClient
//	}
//
// One controller is active per process at a time; Start fails while another
// controller holds the interception seam. Registry mutations and intercepted
// requests are mutex-guarded, but driving one activation from multiple
// concurrent tests is unsupported.
package intercept
