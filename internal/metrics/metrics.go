// Package metrics holds the prometheus collectors shared by the auth core and its jobs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "academy"

var (
	// AuthDecisions counts guard outcomes: allow, unauthenticated, forbidden, error.
	AuthDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "decisions_total",
		Help:      "Authorization guard decisions by outcome.",
	}, []string{"outcome"})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})

	GateRedirects = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gate",
		Name:      "redirects_total",
		Help:      "Protected page navigations redirected to the login page.",
	})

	PendingApplications = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "onboarding",
		Name:      "pending_accounts",
		Help:      "Accounts awaiting admin approval, by role.",
	}, []string{"role"})
)
