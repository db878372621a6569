// Package metrics holds the Prometheus counters for sign-in and access control.
// They register with the default registry and are served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cse_motors_login_attempts_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cse_motors_registrations_total",
			Help: "Registration attempts by outcome.",
		},
		[]string{"outcome"},
	)

	AuthorizationDeniedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cse_motors_authorization_denied_total",
			Help: "Requests refused by an access policy.",
		},
		[]string{"policy"},
	)

	SessionsIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cse_motors_session_issued_total",
			Help: "Session cookies issued or reissued.",
		},
	)
)

const (
	PolicyLogin     = "login"
	PolicyElevated  = "elevated"
	PolicyOwnership = "ownership"
)

func init() {
	prometheus.MustRegister(
		LoginAttemptsTotal,
		RegistrationsTotal,
		AuthorizationDeniedTotal,
		SessionsIssuedTotal,
	)
}

func RecordLogin(outcome string) {
	LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}

func RecordRegistration(outcome string) {
	RegistrationsTotal.WithLabelValues(outcome).Inc()
}

func RecordDenied(policy string) {
	AuthorizationDeniedTotal.WithLabelValues(policy).Inc()
}

func RecordSessionIssued() {
	SessionsIssuedTotal.Inc()
}
