// Package metrics defines and registers all custom Prometheus metrics for
// the user directory service. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "userdir"

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersCreatedTotal counts newly created users.
// Label:
//   - role: the role assigned at creation (e.g. "user", "admin")
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created, by role.",
	},
	[]string{"role"},
)

// UsersDeletedTotal counts deleted users.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of users deleted.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsSentTotal counts notifications that were delivered.
// Label:
//   - event: the notification event name (e.g. "batch_processing_complete")
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of notifications successfully delivered.",
	},
	[]string{"event"},
)

// NotificationErrorsTotal counts notifications that failed delivery.
// Label:
//   - event: the notification event name
var NotificationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_errors_total",
		Help:      "Total number of notifications that failed delivery.",
	},
	[]string{"event"},
)

// NotificationQueueDepth tracks notifications waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheRequestsTotal counts cache lookups.
// Labels:
//   - cache: cache name (e.g. "active_users")
//   - result: "hit" or "miss"
var CacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Total number of cache lookups, labelled by cache name and result (hit/miss).",
	},
	[]string{"cache", "result"},
)
