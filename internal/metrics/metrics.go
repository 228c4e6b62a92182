// Package metrics exposes Prometheus collectors for the workflow engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "valle360"

var (
	// TransitionExecutions counts converter runs by outcome
	// (created, already_executed, failed).
	TransitionExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "workflow",
		Name:      "transition_executions_total",
		Help:      "Workflow transition executions by outcome.",
	}, []string{"outcome"})

	// ApprovalActions counts client approval actions.
	ApprovalActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "approval",
		Name:      "actions_total",
		Help:      "Client approval actions by action.",
	}, []string{"action"})

	// AlertsSent counts escalation notifications by alert kind.
	AlertsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "alerts_sent_total",
		Help:      "Escalation notifications sent by alert kind.",
	}, []string{"kind"})

	// AlertFailures counts tasks the scanner could not notify or stamp.
	AlertFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "alert_failures_total",
		Help:      "Escalation notifications that failed by alert kind.",
	}, []string{"kind"})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "run_duration_seconds",
		Help:      "Duration of overdue scans.",
		Buckets:   prometheus.DefBuckets,
	})

	// NotificationFailures counts best-effort dispatch failures by target.
	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notify",
		Name:      "failures_total",
		Help:      "Notification dispatch failures by target.",
	}, []string{"target"})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
