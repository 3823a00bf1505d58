package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the automation-specific Prometheus metric handles
type Metrics struct {
	AutomationRuns *prometheus.CounterVec // labels: outcome (success|error)
	ItemsProcessed *prometheus.CounterVec // labels: status (posted|failed)
	RunDuration    *prometheus.HistogramVec
	InsightQueries *prometheus.CounterVec // labels: status (success|error)
}
