// Package observability provides metrics and tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts counts auth flow outcomes by action and result.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashstack_auth_attempts_total",
		Help: "Total auth flow attempts by action (signup, signin, reset, update_password, verify) and outcome",
	}, []string{"action", "outcome"})

	// EmailDispatches counts outbound email attempts by kind and outcome.
	EmailDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashstack_email_dispatches_total",
		Help: "Total transactional email dispatch attempts by kind and outcome",
	}, []string{"kind", "outcome"})

	// GateDecisions counts admin route gate decisions.
	GateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashstack_admin_gate_decisions_total",
		Help: "Total admin route gate decisions (allow, redirect_signin, redirect_home)",
	}, []string{"decision"})
)

// RecordAuth increments the auth attempt counter.
func RecordAuth(action string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	AuthAttempts.WithLabelValues(action, outcome).Inc()
}

// RecordEmail increments the email dispatch counter.
func RecordEmail(kind string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	EmailDispatches.WithLabelValues(kind, outcome).Inc()
}
