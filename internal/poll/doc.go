// Package poll waits for a remote resource to reach a terminal state.
//
// Polling uses adaptive backoff with jitter: the interval starts at
// InitialInterval, grows by BackoffMultiplier after each poll that observes
// no change, and is capped at MaxBackoff. Any observed change resets the
// interval. Jitter prevents many clients from polling in lockstep.
//
// Errors from the check function are returned immediately. Polling is not a
// retry mechanism.
package poll
