package idle

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMonitor_ExpiresAfterQuietWindow(t *testing.T) {
	clock := newFakeClock()
	m := NewMonitor(5*time.Minute, WithClock(clock.now))

	clock.advance(4 * time.Minute)
	if m.Expired() {
		t.Fatalf("expired before the window elapsed")
	}

	clock.advance(time.Minute)
	if !m.Expired() {
		t.Fatalf("expected expiry at the deadline")
	}
}

func TestMonitor_ActivityResetsWindow(t *testing.T) {
	clock := newFakeClock()
	m := NewMonitor(5*time.Minute, WithClock(clock.now))

	clock.advance(4 * time.Minute)
	m.Touch()

	// The original deadline passes without expiry.
	clock.advance(2 * time.Minute)
	if m.Expired() {
		t.Fatalf("expired at the pre-activity deadline")
	}

	clock.advance(3 * time.Minute)
	if !m.Expired() {
		t.Fatalf("expected expiry one window after the last activity")
	}
}

func TestMonitor_FiresExactlyOnce(t *testing.T) {
	clock := newFakeClock()
	m := NewMonitor(time.Minute, WithClock(clock.now))

	if m.Fire() {
		t.Fatalf("fired before the deadline")
	}

	clock.advance(time.Minute)
	fires := 0
	for i := 0; i < 5; i++ {
		if m.Fire() {
			fires++
		}
	}
	if fires != 1 {
		t.Fatalf("expected exactly one fire, got %d", fires)
	}
}

func TestMonitor_TouchAfterExpiryIsNoOp(t *testing.T) {
	clock := newFakeClock()
	m := NewMonitor(time.Minute, WithClock(clock.now))

	clock.advance(2 * time.Minute)
	if !m.Expired() {
		t.Fatalf("expected expiry")
	}

	m.Touch()
	if !m.Expired() {
		t.Fatalf("touch resurrected an expired monitor")
	}
}

func TestMonitor_ArmAtRewindsDeadline(t *testing.T) {
	clock := newFakeClock()
	m := NewMonitor(5*time.Minute, WithClock(clock.now))

	// Adopt a session whose last activity is already 4 minutes old. The
	// deadline lands at activity plus window, one minute out, not five.
	activity := clock.now().Add(-4 * time.Minute)
	m.ArmAt(activity)
	if !m.Deadline().Equal(activity.Add(5 * time.Minute)) {
		t.Fatalf("ArmAt set deadline %v, want %v", m.Deadline(), activity.Add(5*time.Minute))
	}

	clock.advance(time.Minute)
	if !m.Expired() {
		t.Fatalf("expected expiry one window after the recorded activity")
	}

	// An expired monitor stays expired.
	m.ArmAt(clock.now())
	if !m.Expired() {
		t.Fatalf("ArmAt resurrected an expired monitor")
	}
}

func TestMonitor_ObserveKeepsLatestDeadline(t *testing.T) {
	clock := newFakeClock()
	m := NewMonitor(5*time.Minute, WithClock(clock.now))
	armed := m.Deadline()

	// A stale activity instant never pulls the deadline backwards.
	m.Observe(clock.now().Add(-10 * time.Minute))
	if !m.Deadline().Equal(armed) {
		t.Fatalf("stale observe moved deadline to %v", m.Deadline())
	}

	clock.advance(2 * time.Minute)
	m.Observe(clock.now())
	if !m.Deadline().Equal(clock.now().Add(5 * time.Minute)) {
		t.Fatalf("observe did not re-arm: deadline %v", m.Deadline())
	}
}
