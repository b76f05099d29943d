package intercept

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sync"
	"testing"

	"github.com/getmockd/httpstub/pkg/calllog"
	"github.com/getmockd/httpstub/pkg/logging"
	"github.com/getmockd/httpstub/pkg/stub"
	"github.com/getmockd/httpstub/pkg/stubfile"
)

// Controller owns one activation scope: a stub registry, a call log, and
// the transports it has swapped. Its lifecycle is Inactive -> Active ->
// Inactive; Start and Stop move between the states and Reset clears the
// registry and log in either state.
type Controller struct {
	mu     sync.Mutex
	active bool

	registry *stub.Registry
	calls    calllog.Store
	logger   *slog.Logger

	// assertAllStubsCalled makes Stop fail with an AssertionError when any
	// registered stub was never matched. With and StartT enable it.
	assertAllStubsCalled bool

	// responseCallback post-processes every resolved response exactly
	// once. Not applied to passthrough or errored calls.
	responseCallback func(*stub.Response) *stub.Response

	// savedDefault is http.DefaultTransport as it was before Start.
	savedDefault http.RoundTripper

	// clients maps intercepted clients to the transports they had before
	// InterceptClient, for restoration on Stop.
	clients map[*http.Client]http.RoundTripper
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for resolution decisions. Defaults to a
// nop logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCallLog replaces the default in-memory call log store.
func WithCallLog(s calllog.Store) Option {
	return func(c *Controller) {
		if s != nil {
			c.calls = s
		}
	}
}

// WithAssertAllStubsCalled controls the teardown check that every
// registered stub was matched at least once.
func WithAssertAllStubsCalled(on bool) Option {
	return func(c *Controller) { c.assertAllStubsCalled = on }
}

// WithResponseCallback sets a hook applied exactly once to every resolved,
// non-passthrough, non-error response before it is returned to the caller.
func WithResponseCallback(fn func(*stub.Response) *stub.Response) Option {
	return func(c *Controller) { c.responseCallback = fn }
}

// NewController creates an inactive controller with an empty registry and
// call log.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		registry: stub.NewRegistry(),
		calls:    calllog.NewInMemoryStore(),
		logger:   logging.Nop(),
		clients:  make(map[*http.Client]http.RoundTripper),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start activates interception: the controller publishes itself as the
// process-wide active controller and swaps http.DefaultTransport for the
// interceptor. It fails with ErrAlreadyActive if this controller is already
// active or another controller holds the seam.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		return ErrAlreadyActive
	}
	if err := setCurrent(c); err != nil {
		return err
	}
	c.savedDefault = http.DefaultTransport
	http.DefaultTransport = &transport{controller: c, real: c.savedDefault}
	c.active = true
	c.logger.Debug("interception started")
	return nil
}

// Stop deactivates interception and restores every transport the controller
// replaced. It fails with ErrNotActive when the controller is not active.
// When the all-stubs-called assertion is enabled, Stop returns an
// AssertionError naming every stub that was never matched; the transports
// are restored regardless.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return ErrNotActive
	}

	http.DefaultTransport = c.savedDefault
	c.savedDefault = nil
	for client, original := range c.clients {
		client.Transport = original
		delete(c.clients, client)
	}
	c.active = false
	clearCurrent(c)
	c.logger.Debug("interception stopped")

	if c.assertAllStubsCalled {
		if unfired := c.registry.Unfired(); len(unfired) > 0 {
			names := make([]string, 0, len(unfired))
			for _, s := range unfired {
				m, u := s.Identity()
				names = append(names, m+" "+u)
			}
			return &AssertionError{Unfired: names}
		}
	}
	return nil
}

// Reset clears the registry and the call log. It is valid whether or not
// the controller is active and calling it twice is a no-op the second time.
func (c *Controller) Reset() {
	c.registry.Reset()
	c.calls.Clear()
}

// Active reports whether the controller currently holds the interception
// seam.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// InterceptClient swaps the client's transport for the interceptor. The
// original transport is restored on Stop and is used for passthrough
// requests issued through this client.
func (c *Controller) InterceptClient(client *http.Client) {
	if client == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.clients[client]; ok {
		return
	}
	original := client.Transport
	c.clients[client] = original
	client.Transport = &transport{controller: c, real: original}
}

// Client returns a new *http.Client whose transport is the interceptor.
// Passthrough requests issued through it use the genuine default transport.
func (c *Controller) Client() *http.Client {
	return &http.Client{Transport: &transport{controller: c}}
}

// savedDefaultTransport returns the transport http.DefaultTransport held
// before Start, or nil when the controller is not active.
func (c *Controller) savedDefaultTransport() http.RoundTripper {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.savedDefault
}

// Add registers a stub at the end of the registry.
func (c *Controller) Add(s *stub.Stub) {
	c.registry.Add(s)
}

// AddCallback registers a stub for the given method and literal URL whose
// response is computed by cb at resolution time. Returns the stub so
// matchers or the querystring policy can be attached.
func (c *Controller) AddCallback(method, rawURL string, cb stub.Callback) *stub.Stub {
	s := stub.New(method, rawURL).WithCallback(cb)
	c.registry.Add(s)
	return s
}

// Insert places a stub at the given registry position, giving it matching
// priority over later entries.
func (c *Controller) Insert(index int, s *stub.Stub) {
	c.registry.Insert(index, s)
}

// Replace swaps the first registered stub sharing s's identity, keeping its
// position and resetting the call count. Returns stub.ErrNotFound when no
// stub with that identity exists.
func (c *Controller) Replace(s *stub.Stub) error {
	return c.registry.Replace(s)
}

// Upsert replaces a stub with the same identity or adds s when none exists.
func (c *Controller) Upsert(s *stub.Stub) {
	c.registry.Upsert(s)
}

// Remove deletes every stub with the given (method, URL) identity and
// returns how many were removed.
func (c *Controller) Remove(method, rawURL string) int {
	return c.registry.Remove(method, rawURL)
}

// AddPassthru exempts requests whose URL starts with the given prefix from
// interception.
func (c *Controller) AddPassthru(prefix string) {
	c.registry.AddPassthrough(stub.PassthroughRule{Prefix: prefix})
}

// AddPassthruPattern exempts requests whose full URL matches the pattern
// from interception.
func (c *Controller) AddPassthruPattern(pattern *regexp.Regexp) {
	c.registry.AddPassthrough(stub.PassthroughRule{Pattern: pattern})
}

// Registered returns the registered stubs in registration order.
func (c *Controller) Registered() []*stub.Stub {
	return c.registry.Stubs()
}

// Calls returns the recorded exchanges in order.
func (c *Controller) Calls() []*calllog.Entry {
	return c.calls.List(nil)
}

// CallCount returns how many recorded exchanges targeted the given URL.
func (c *Controller) CallCount(rawURL string) int {
	return c.calls.CountForURL(rawURL)
}

// AssertCallCount checks that the URL was called exactly want times,
// returning an AssertionError carrying the URL and both counts otherwise.
func (c *Controller) AssertCallCount(rawURL string, want int) error {
	got := c.calls.CountForURL(rawURL)
	if got != want {
		return &AssertionError{URL: rawURL, Expected: want, Actual: got}
	}
	return nil
}

// LoadStubs loads stub fixture files matching the glob pattern (doublestar
// syntax, ** supported) and registers them in deterministic order.
func (c *Controller) LoadStubs(pattern string) error {
	stubs, err := stubfile.LoadGlob(pattern)
	if err != nil {
		return fmt.Errorf("loading stubs: %w", err)
	}
	for _, s := range stubs {
		c.registry.Add(s)
	}
	return nil
}

// With runs fn inside an activation scope: Start, fn, then Stop even when
// fn fails, panics, or exits the goroutine. The all-stubs-called teardown
// assertion is enabled by default. When fn returns an error it wins:
// teardown assertion failures are suppressed so they do not mask the
// scope's own failure.
func With(fn func(*Controller) error, opts ...Option) (err error) {
	c := NewController(append([]Option{WithAssertAllStubsCalled(true)}, opts...)...)
	if startErr := c.Start(); startErr != nil {
		return startErr
	}
	// Stop must run even when fn panics or calls runtime.Goexit, or the
	// swapped transports and the current-controller slot would leak past
	// the scope.
	defer func() {
		stopErr := c.Stop()
		if err == nil {
			err = stopErr
		}
	}()
	return fn(c)
}

// StartT starts a controller for the duration of a test and registers a
// t.Cleanup that stops it. The all-stubs-called teardown assertion is
// enabled by default and reported through t.Errorf, unless the test has
// already failed.
func StartT(t testing.TB, opts ...Option) *Controller {
	t.Helper()
	c := NewController(append([]Option{WithAssertAllStubsCalled(true)}, opts...)...)
	if err := c.Start(); err != nil {
		t.Fatalf("starting interception: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Stop(); err != nil && !t.Failed() {
			t.Errorf("stopping interception: %v", err)
		}
	})
	return c
}
