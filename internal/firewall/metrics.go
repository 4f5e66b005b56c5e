package firewall

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ragfw/ragfw/internal/types"
)

var (
	// decisionsTotal counts decisions by final action
	decisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragfw_decisions_total",
			Help: "Total number of artifact decisions",
		},
		[]string{"action"},
	)

	findingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragfw_findings_total",
			Help: "Total number of scanner findings",
		},
		[]string{"scanner", "severity"},
	)

	scannerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragfw_scanner_errors_total",
			Help: "Scanner invocations that failed or panicked",
		},
		[]string{"scanner"},
	)

	auditFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ragfw_audit_failures_total",
			Help: "Audit events that could not be written",
		},
	)
)

func init() {
	prometheus.MustRegister(decisionsTotal)
	prometheus.MustRegister(findingsTotal)
	prometheus.MustRegister(scannerErrors)
	prometheus.MustRegister(auditFailures)
}

func observe(d types.Decision, findings []types.Finding) {
	decisionsTotal.WithLabelValues(string(d.Action)).Inc()
	for _, f := range findings {
		findingsTotal.WithLabelValues(f.Scanner, string(f.Severity)).Inc()
	}
}
