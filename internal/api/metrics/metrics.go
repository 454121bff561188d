// Package metrics defines and registers all custom Prometheus metrics for the
// onboarding API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "onboarding"

// ApplicationsSubmittedTotal counts successfully submitted applications.
var ApplicationsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_submitted_total",
		Help:      "Total number of applications submitted.",
	},
)

// ApplicationsRejectedTotal counts submissions refused before a record was
// created. Label:
//   - reason: "duplicate", "deadline", "capacity", "private"
var ApplicationsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_rejected_total",
		Help:      "Total number of refused application submissions, by reason.",
	},
	[]string{"reason"},
)

// StatusUpdatesTotal counts accepted status update requests, including
// idempotent repeats of the current status. Label:
//   - status: resulting internal status (e.g. "Selected")
var StatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "application_status_updates_total",
		Help:      "Total number of accepted application status update requests, by resulting status.",
	},
	[]string{"status"},
)

// CapacityConflictsTotal counts approvals refused because the session was
// full at the moment of the guarded counter update.
var CapacityConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "capacity_conflicts_total",
		Help:      "Total number of approvals refused by the capacity guard.",
	},
)

// NotificationsPushedTotal counts real-time push attempts.
// Label:
//   - result: "ok" or "error"
var NotificationsPushedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_pushed_total",
		Help:      "Total number of real-time notification push attempts, by result.",
	},
	[]string{"result"},
)

// BroadcastDeliveriesTotal counts fan-out deliveries from session-created
// broadcasts. Label:
//   - result: "ok" or "error"
var BroadcastDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_deliveries_total",
		Help:      "Total number of session broadcast deliveries, by result.",
	},
	[]string{"result"},
)

// WebsocketConnections tracks currently open websocket connections on this
// instance.
var WebsocketConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_connections",
		Help:      "Currently open websocket connections.",
	},
)
