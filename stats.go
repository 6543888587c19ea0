package exosink

import "go.uber.org/atomic"

// Stats is a snapshot of a reporter's delivery counters.
type Stats struct {
	// ReportsDelivered counts completed HTTP exchanges, whatever their
	// status code.
	ReportsDelivered int64

	// TransportFailures counts report calls that failed before a response
	// was received.
	TransportFailures int64

	// LastStatusCode is the status code of the most recent completed
	// exchange, zero if none completed yet.
	LastStatusCode int
}

// counters tracks delivery outcomes. Counter updates are the only writes that
// happen after construction, and they never touch the reporter's resolved
// configuration.
type counters struct {
	delivered         atomic.Int64
	transportFailures atomic.Int64
	lastStatusCode    atomic.Int32
}

// snapshot returns a consistent-enough copy of the counters for reporting.
func (c *counters) snapshot() Stats {
	return Stats{
		ReportsDelivered:  c.delivered.Load(),
		TransportFailures: c.transportFailures.Load(),
		LastStatusCode:    int(c.lastStatusCode.Load()),
	}
}
