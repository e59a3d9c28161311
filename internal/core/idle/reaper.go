package idle

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/roncloudtech/hospital-remittance/internal/api/metrics"
	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/core/ports"
)

// Reaper sweeps the session store and terminates sessions that have been
// idle longer than the configured timeout. For each expired session it
// records a best-effort idle-logout audit entry (failure is logged, never
// retried) and then unconditionally deletes the session.
type Reaper struct {
	store    ports.SessionStore
	audit    ports.AuditRecorder
	timeout  time.Duration
	now      func() time.Time
	log      zerolog.Logger
	monitors map[string]*Monitor
}

// NewReaper builds a Reaper. A non-positive timeout falls back to 5 minutes,
// the portal's default inactivity window.
func NewReaper(store ports.SessionStore, audit ports.AuditRecorder, timeout time.Duration, log zerolog.Logger, opts ...Option) *Reaper {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	r := &Reaper{
		store:    store,
		audit:    audit,
		timeout:  timeout,
		now:      time.Now,
		log:      log,
		monitors: make(map[string]*Monitor),
	}
	// Reuse Monitor options for clock injection.
	seed := &Monitor{now: time.Now}
	for _, opt := range opts {
		opt(seed)
	}
	r.now = seed.now
	return r
}

// Run sweeps at the given interval until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep evaluates every stored session once. Exported so tests and the
// resolver path can drive it without the ticker.
func (r *Reaper) Sweep(ctx context.Context) {
	sessions, err := r.store.All(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("idle sweep: listing sessions failed")
		return
	}

	live := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		live[s.ID] = struct{}{}

		m, ok := r.monitors[s.ID]
		if !ok {
			m = NewMonitor(r.timeout, WithClock(r.now))
			// Arm from the session's recorded activity, not the sweep
			// instant. A session picked up mid-life (or after a restart)
			// keeps its original deadline of last activity plus timeout.
			m.ArmAt(s.LastSeen)
			r.monitors[s.ID] = m
		}
		m.Observe(s.LastSeen)

		if m.Fire() {
			r.expire(ctx, s)
			delete(r.monitors, s.ID)
		}
	}

	// Drop monitors for sessions removed by explicit logout.
	for id := range r.monitors {
		if _, ok := live[id]; !ok {
			delete(r.monitors, id)
		}
	}
}

func (r *Reaper) expire(ctx context.Context, s *domain.Session) {
	entry := &domain.AuditEntry{
		Action:    domain.AuditIdleLogout,
		EntityID:  s.ID,
		CreatedAt: r.now(),
	}
	if s.User != nil {
		entry.ActorID = s.User.ID
		entry.ActorEmail = s.User.Email
	}
	if err := r.audit.Insert(ctx, entry); err != nil {
		r.log.Warn().Err(err).Str("session_id", s.ID).Msg("idle logout audit failed")
	}

	if err := r.store.Delete(ctx, s.ID); err != nil {
		r.log.Error().Err(err).Str("session_id", s.ID).Msg("idle logout: session delete failed")
		return
	}

	metrics.IdleExpiriesTotal.Inc()
	metrics.ActiveSessions.Dec()
	r.log.Info().Str("session_id", s.ID).Dur("timeout", r.timeout).Msg("session expired after inactivity")
}
