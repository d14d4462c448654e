// In-flight request coalescing.
//
// The remote store has no native request coalescing, so without a gate every
// concurrent component requesting the same query shape fires its own network
// round trip. FlightGroup keys in-flight fetches by a logical key (e.g.
// "all-adoptions", "owner-adoptions-{id}"): the first caller runs the fetch,
// later callers with the same key wait for that outcome instead of issuing a
// duplicate call. Waits are bounded by a timeout so a hung store call cannot
// park waiters forever.
//
// Callers that receive a shared outcome must re-check the cache/watermark
// before trusting it: the leader may have failed, leaving stale or absent
// cache data.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrFlightTimeout is returned to waiters when the in-flight leader does not
// finish within the group's wait timeout.
var ErrFlightTimeout = errors.New("cache: timed out waiting for in-flight request")

// DefaultWaitTimeout bounds how long a coalesced caller waits on the leader.
const DefaultWaitTimeout = 10 * time.Second

type flightCall struct {
	done chan struct{}
	err  error
}

// FlightGroup coalesces concurrent operations by logical key.
// Safe for concurrent use.
type FlightGroup struct {
	mu      sync.Mutex
	calls   map[string]*flightCall
	timeout time.Duration
}

// NewFlightGroup returns a group with the given wait timeout;
// timeout <= 0 uses DefaultWaitTimeout.
func NewFlightGroup(timeout time.Duration) *FlightGroup {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	return &FlightGroup{
		calls:   make(map[string]*flightCall),
		timeout: timeout,
	}
}

// Do runs fn for key unless a call for the same key is already in flight, in
// which case it waits for that call instead. The returned shared flag is true
// when the outcome came from another caller's execution; shared callers must
// re-validate the cache before using it.
//
// The wait is bounded by the group timeout and by ctx.
func (g *FlightGroup) Do(ctx context.Context, key string, fn func() error) (err error, shared bool) {
	g.mu.Lock()
	if call, inFlight := g.calls[key]; inFlight {
		g.mu.Unlock()
		coalescedTotal.WithLabelValues(key).Inc()

		timer := time.NewTimer(g.timeout)
		defer timer.Stop()
		select {
		case <-call.done:
			return call.err, true
		case <-timer.C:
			return ErrFlightTimeout, true
		case <-ctx.Done():
			return ctx.Err(), true
		}
	}

	call := &flightCall{done: make(chan struct{})}
	g.calls[key] = call
	g.mu.Unlock()

	call.err = fn()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
	close(call.done)

	return call.err, false
}

// InFlight returns the number of keys currently being fetched.
func (g *FlightGroup) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}
