// Package metrics defines and registers all custom Prometheus metrics for
// the remittance portal API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "remitfund"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ActiveSessions tracks the number of live sessions in the session store.
// Incremented on login, decremented when a session is destroyed by logout,
// idle expiry, or the reaper.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Current number of live sessions.",
	},
)

// IdleExpiriesTotal counts sessions terminated by the idle reaper.
var IdleExpiriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idle_expiries_total",
		Help:      "Total number of sessions terminated after the inactivity window.",
	},
)

// GuardDenialsTotal counts route-guard denials.
// Labels:
//   - guard:  "authenticated", "admin_only", or "role_set"
//   - reason: "no_token" or "role_mismatch"
var GuardDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_denials_total",
		Help:      "Total number of requests denied by a route guard.",
	},
	[]string{"guard", "reason"},
)

// ── Remittance metrics ────────────────────────────────────────────────────────

// RemittancesCreatedTotal counts submitted remittances.
// Label:
//   - payment_method: the method reported by the remitter (e.g. "bank_transfer")
var RemittancesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remittances_created_total",
		Help:      "Total number of remittances submitted, by payment method.",
	},
	[]string{"payment_method"},
)

// RemittanceDecisionsTotal counts admin approval decisions.
// Label:
//   - action: "approve" or "reject"
var RemittanceDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remittance_decisions_total",
		Help:      "Total number of remittance approval decisions, by action.",
	},
	[]string{"action"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationQueueDepth tracks the number of notification events waiting in
// each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notification events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationsDeliveredTotal counts notifications persisted for users.
var NotificationsDeliveredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_delivered_total",
		Help:      "Total number of notifications delivered to user inboxes.",
	},
)
