// Package idle enforces the per-session inactivity window. Monitor is the
// countdown state machine; Reaper sweeps the session store and expires
// sessions whose monitor has fired.
package idle

import "time"

// Monitor is a single inactivity countdown: Active(deadline) until the
// deadline passes without activity, then Expired. Expiry latches: a fired
// monitor never re-arms; the owner discards it and builds a new one for a
// new session.
type Monitor struct {
	timeout  time.Duration
	now      func() time.Time
	deadline time.Time
	expired  bool
	fired    bool
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock injects the time source. Tests use this to drive the countdown
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMonitor returns a Monitor armed from the current instant.
func NewMonitor(timeout time.Duration, opts ...Option) *Monitor {
	m := &Monitor{timeout: timeout, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	m.deadline = m.now().Add(timeout)
	return m
}

// ArmAt resets the countdown to a recorded activity instant. Unlike
// Observe it may pull the deadline earlier, so owners call it once when
// adopting a session whose last activity predates the monitor; a session
// already idle past the window expires on the next check instead of
// getting a fresh window.
func (m *Monitor) ArmAt(activity time.Time) {
	if m.expired {
		return
	}
	m.deadline = activity.Add(m.timeout)
}

// Touch records activity and re-arms the countdown. Touching an expired
// monitor is a no-op: the session is already gone.
func (m *Monitor) Touch() {
	m.Observe(m.now())
}

// Observe re-arms the countdown from an externally recorded activity
// instant, keeping the later of the current and the implied deadline.
func (m *Monitor) Observe(activity time.Time) {
	if m.expired {
		return
	}
	if d := activity.Add(m.timeout); d.After(m.deadline) {
		m.deadline = d
	}
}

// Deadline returns the instant the countdown expires absent further activity.
func (m *Monitor) Deadline() time.Time {
	return m.deadline
}

// Expired transitions the monitor to Expired once the deadline has passed
// and reports the current state.
func (m *Monitor) Expired() bool {
	if !m.expired && !m.now().Before(m.deadline) {
		m.expired = true
	}
	return m.expired
}

// Fire reports expiry exactly once: the first call after the deadline
// passes returns true, every later call returns false. This is what keeps
// the logout side effects from running twice for one window.
func (m *Monitor) Fire() bool {
	if !m.Expired() || m.fired {
		return false
	}
	m.fired = true
	return true
}
