package intercept

import (
	"sync"

	"github.com/getmockd/httpstub/pkg/stub"
)

// The process-wide current controller. Set by Start, cleared by Stop; the
// global convenience functions below delegate to it. Holding the seam in a
// single guarded slot, rather than mutating ambient state from arbitrary
// call sites, is what makes re-entrant activation detectable.
var (
	currentMu sync.RWMutex
	current   *Controller
)

func setCurrent(c *Controller) error {
	currentMu.Lock()
	defer currentMu.Unlock()
	if current != nil {
		return ErrAlreadyActive
	}
	current = c
	return nil
}

func clearCurrent(c *Controller) {
	currentMu.Lock()
	defer currentMu.Unlock()
	if current == c {
		current = nil
	}
}

// Current returns the active controller, or ErrNotActive when none is.
func Current() (*Controller, error) {
	currentMu.RLock()
	defer currentMu.RUnlock()
	if current == nil {
		return nil, ErrNotActive
	}
	return current, nil
}

// Add registers a stub with the active controller.
func Add(s *stub.Stub) error {
	c, err := Current()
	if err != nil {
		return err
	}
	c.Add(s)
	return nil
}

// AddCallback registers a callback stub with the active controller.
func AddCallback(method, rawURL string, cb stub.Callback) error {
	c, err := Current()
	if err != nil {
		return err
	}
	c.AddCallback(method, rawURL, cb)
	return nil
}

// Replace swaps a stub with the same identity in the active controller's
// registry.
func Replace(s *stub.Stub) error {
	c, err := Current()
	if err != nil {
		return err
	}
	return c.Replace(s)
}

// Upsert replaces or adds a stub in the active controller's registry.
func Upsert(s *stub.Stub) error {
	c, err := Current()
	if err != nil {
		return err
	}
	c.Upsert(s)
	return nil
}

// Remove deletes every stub with the given identity from the active
// controller's registry, returning how many were removed.
func Remove(method, rawURL string) (int, error) {
	c, err := Current()
	if err != nil {
		return 0, err
	}
	return c.Remove(method, rawURL), nil
}

// Reset clears the active controller's registry and call log.
func Reset() error {
	c, err := Current()
	if err != nil {
		return err
	}
	c.Reset()
	return nil
}

// AddPassthru adds a passthrough prefix rule to the active controller.
func AddPassthru(prefix string) error {
	c, err := Current()
	if err != nil {
		return err
	}
	c.AddPassthru(prefix)
	return nil
}

// AssertCallCount checks a call count against the active controller's log.
func AssertCallCount(rawURL string, want int) error {
	c, err := Current()
	if err != nil {
		return err
	}
	return c.AssertCallCount(rawURL, want)
}

// Registered returns the active controller's stubs in registration order.
func Registered() ([]*stub.Stub, error) {
	c, err := Current()
	if err != nil {
		return nil, err
	}
	return c.Registered(), nil
}
