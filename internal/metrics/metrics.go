// Package metrics exposes ledger counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DuesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "condo_ledger",
		Name:      "dues_created_total",
		Help:      "Dues created by due generation.",
	})

	Payments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "condo_ledger",
		Name:      "payments_total",
		Help:      "Payment attempts by outcome.",
	}, []string{"outcome"})

	Backups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "condo_ledger",
		Name:      "backups_total",
		Help:      "Backup runs by trigger and outcome.",
	}, []string{"trigger", "outcome"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "condo_ledger",
		Name:      "http_requests_total",
		Help:      "API requests by method and status code.",
	}, []string{"method", "status"})
)
