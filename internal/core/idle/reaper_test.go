package idle

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/roncloudtech/hospital-remittance/internal/api/metrics"
	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/infrastructure/db/memory"
)

type recordingAudit struct {
	entries []*domain.AuditEntry
	fail    bool
}

func (a *recordingAudit) Insert(_ context.Context, e *domain.AuditEntry) error {
	if a.fail {
		return context.DeadlineExceeded
	}
	a.entries = append(a.entries, e)
	return nil
}

func newTestReaper(store *memory.SessionStore, audit *recordingAudit, clock *fakeClock) *Reaper {
	return NewReaper(store, audit, 5*time.Minute, zerolog.Nop(), WithClock(clock.now))
}

func putSession(t *testing.T, store *memory.SessionStore, id string, lastSeen time.Time) {
	t.Helper()
	err := store.Put(context.Background(), &domain.Session{
		ID:       id,
		Token:    "tok-" + id,
		User:     &domain.User{ID: "u-" + id, Email: id + "@example.com", Role: domain.RoleRemitter},
		LastSeen: lastSeen,
	})
	if err != nil {
		t.Fatalf("put session: %v", err)
	}
}

func TestReaper_ExpiresIdleSession(t *testing.T) {
	clock := newFakeClock()
	store := memory.NewSessionStore()
	audit := &recordingAudit{}
	r := newTestReaper(store, audit, clock)
	ctx := context.Background()

	putSession(t, store, "s1", clock.now())
	gauge := testutil.ToFloat64(metrics.ActiveSessions)

	clock.advance(4 * time.Minute)
	r.Sweep(ctx)
	if _, err := store.Find(ctx, "s1"); err != nil {
		t.Fatalf("session expired early: %v", err)
	}

	clock.advance(2 * time.Minute)
	r.Sweep(ctx)
	if _, err := store.Find(ctx, "s1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session gone, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.ActiveSessions); got != gauge-1 {
		t.Fatalf("expected active-sessions gauge to drop by one, got %v (was %v)", got, gauge)
	}

	if len(audit.entries) != 1 || audit.entries[0].Action != domain.AuditIdleLogout {
		t.Fatalf("expected one idle-logout audit entry, got %+v", audit.entries)
	}
	if audit.entries[0].ActorEmail != "s1@example.com" {
		t.Fatalf("audit entry missing actor: %+v", audit.entries[0])
	}
}

// A session whose recorded activity already predates the window when the
// reaper first sees it (a restart, or a sweep that starts late) expires on
// that first sweep instead of being granted a fresh window.
func TestReaper_StaleSessionExpiresOnFirstSweep(t *testing.T) {
	clock := newFakeClock()
	store := memory.NewSessionStore()
	audit := &recordingAudit{}
	ctx := context.Background()

	putSession(t, store, "s1", clock.now())
	clock.advance(20 * time.Minute)

	// The reaper is built after the session went idle, as it would be
	// following a process restart.
	r := newTestReaper(store, audit, clock)
	r.Sweep(ctx)

	if _, err := store.Find(ctx, "s1"); err != domain.ErrSessionNotFound {
		t.Fatalf("stale session survived the first sweep: %v", err)
	}
	if len(audit.entries) != 1 {
		t.Fatalf("expected one idle-logout entry, got %d", len(audit.entries))
	}
}

func TestReaper_ActivityKeepsSessionAlive(t *testing.T) {
	clock := newFakeClock()
	store := memory.NewSessionStore()
	audit := &recordingAudit{}
	r := newTestReaper(store, audit, clock)
	ctx := context.Background()

	putSession(t, store, "s1", clock.now())

	clock.advance(4 * time.Minute)
	_ = store.Touch(ctx, "s1", clock.now())
	r.Sweep(ctx)

	clock.advance(2 * time.Minute)
	r.Sweep(ctx)
	if _, err := store.Find(ctx, "s1"); err != nil {
		t.Fatalf("session with recent activity was expired: %v", err)
	}

	clock.advance(4 * time.Minute)
	r.Sweep(ctx)
	if _, err := store.Find(ctx, "s1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected expiry one window after last activity, got %v", err)
	}
	if len(audit.entries) != 1 {
		t.Fatalf("expected exactly one expiry, got %d", len(audit.entries))
	}
}

// A failing audit write is logged and swallowed; the session is still
// cleared.
func TestReaper_AuditFailureDoesNotBlockLogout(t *testing.T) {
	clock := newFakeClock()
	store := memory.NewSessionStore()
	audit := &recordingAudit{fail: true}
	r := newTestReaper(store, audit, clock)
	ctx := context.Background()

	putSession(t, store, "s1", clock.now())
	clock.advance(10 * time.Minute)
	r.Sweep(ctx)

	if _, err := store.Find(ctx, "s1"); err != domain.ErrSessionNotFound {
		t.Fatalf("session survived a failed audit write: %v", err)
	}
}

func TestReaper_ForgetsLoggedOutSessions(t *testing.T) {
	clock := newFakeClock()
	store := memory.NewSessionStore()
	audit := &recordingAudit{}
	r := newTestReaper(store, audit, clock)
	ctx := context.Background()

	putSession(t, store, "s1", clock.now())
	r.Sweep(ctx)
	if len(r.monitors) != 1 {
		t.Fatalf("expected a monitor for the live session")
	}

	_ = store.Delete(ctx, "s1")
	r.Sweep(ctx)
	if len(r.monitors) != 0 {
		t.Fatalf("monitor leaked after logout")
	}
	if len(audit.entries) != 0 {
		t.Fatalf("explicit logout must not produce an idle-logout entry")
	}
}
