// Package metrics defines all custom Prometheus metrics for the deskshell
// backend. It is the single source of truth for metric names, labels, and
// help strings; HTTP-level metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "deskshell"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of PIN login attempts, labelled by result.",
	},
	[]string{"result"},
)

// StateMutationsTotal counts per-user store mutations.
// Label:
//   - action: the audit action label applied (e.g. "UPDATE_STATE")
var StateMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "state_mutations_total",
		Help:      "Total number of user state mutations, by audit action.",
	},
	[]string{"action"},
)

// AuditEntriesDroppedTotal counts audit entries truncated past the cap.
var AuditEntriesDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_entries_dropped_total",
		Help:      "Total number of audit entries dropped by cap truncation.",
	},
)

// HardwareQueueDepth tracks the number of actions pending in each worker shard.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var HardwareQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hardware_queue_depth",
		Help:      "Current number of hardware actions pending per worker shard.",
	},
	[]string{"worker_id"},
)

// HardwareActionsTotal counts hardware action delivery outcomes.
// Label:
//   - result: "delivered", "retried", or "dropped"
var HardwareActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hardware_actions_total",
		Help:      "Total number of hardware action delivery outcomes.",
	},
	[]string{"result"},
)
