// Package metrics defines and registers all custom Prometheus metrics for
// the authentication service. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time and
// are exposed through the /metrics endpoint mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// RegistrationsTotal counts completed registrations.
// Label:
//   - role: the role assigned at registration ("customer" or "admin")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successful user registrations, by assigned role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts that reached a terminal outcome.
// Label:
//   - result: "success", "failure", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenValidationFailures counts bearer tokens the middleware refused.
// Label:
//   - reason: "malformed", "signature", "expired", "no_subject", or "unknown_subject"
var TokenValidationFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validation_failures_total",
		Help:      "Total number of rejected bearer tokens, by failure kind.",
	},
	[]string{"reason"},
)

// AuthzDecisions counts authorization policy outcomes.
// Label:
//   - decision: "allow", "unauthenticated", or "denied"
var AuthzDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization policy evaluations, by decision.",
	},
	[]string{"decision"},
)

// AuditQueueDepth tracks the number of audit events waiting in each worker
// channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
