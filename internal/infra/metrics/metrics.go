package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coreportal"

var operationsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of simulated operations by action and result (success, error).",
	},
	[]string{"action", "result"},
)

var operationDurationSeconds = promauto.With(prometheus.DefaultRegisterer).NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Wall time of simulated operations including lock wait and artificial delay.",
		Buckets:   []float64{0.1, 0.5, 1, 1.5, 2, 2.5, 3, 4, 5, 10, 30},
	},
	[]string{"action"},
)

var operationsInFlight = promauto.With(prometheus.DefaultRegisterer).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "operations_in_flight",
		Help:      "Number of simulated operations currently running.",
	},
	[]string{"action"},
)

var servicesByStatus = promauto.With(prometheus.DefaultRegisterer).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "services",
		Help:      "Number of services in the registry by namespace and status.",
	},
	[]string{"namespace", "status"},
)

var podsTotal = promauto.With(prometheus.DefaultRegisterer).NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pods",
		Help:      "Number of pods across all services in the registry.",
	},
)

var auditEntries = promauto.With(prometheus.DefaultRegisterer).NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_entries",
		Help:      "Number of entries currently retained in the audit log.",
	},
)

var notificationKeyCollisionsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_key_collisions_total",
		Help: "Total number of loading notifications that replaced another still-loading " +
			"notification under the same key (same operation issued twice on one target).",
	},
)

var scheduledRestartsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduled_restarts_total",
		Help:      "Total number of cron-triggered service restarts by result.",
	},
	[]string{"service", "result"},
)

// ServiceKey identifies a (namespace, status) bucket of the services gauge.
type ServiceKey struct {
	Namespace string
	Status    string
}

// OperationStarted marks an operation as in flight.
func OperationStarted(action string) {
	operationsInFlight.WithLabelValues(action).Inc()
}

// OperationFinished records the outcome and duration of an operation.
func OperationFinished(action, result string, duration time.Duration) {
	operationsInFlight.WithLabelValues(action).Dec()
	operationsTotal.WithLabelValues(action, result).Inc()
	operationDurationSeconds.WithLabelValues(action).Observe(duration.Seconds())
}

// SetServiceCounts replaces the services gauge with counts and sets the pod total.
func SetServiceCounts(counts map[ServiceKey]int, pods int) {
	servicesByStatus.Reset()

	for key, n := range counts {
		servicesByStatus.WithLabelValues(key.Namespace, key.Status).Set(float64(n))
	}

	podsTotal.Set(float64(pods))
}

// SetAuditEntries sets the number of retained audit entries.
func SetAuditEntries(n int) {
	auditEntries.Set(float64(n))
}

// RecordNotificationKeyCollision counts a loading notification replacing another loading one.
func RecordNotificationKeyCollision() {
	notificationKeyCollisionsTotal.Inc()
}

// RecordScheduledRestart counts a cron-triggered restart.
func RecordScheduledRestart(service, result string) {
	scheduledRestartsTotal.WithLabelValues(service, result).Inc()
}

var componentUp = promauto.With(prometheus.DefaultRegisterer).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "component_up",
		Help:      "Whether the last health ping of a component succeeded (1) or failed (0).",
	},
	[]string{"component"},
)

var componentPingDurationSeconds = promauto.With(prometheus.DefaultRegisterer).NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "component_ping_duration_seconds",
		Help:      "Latency of component health pings.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	},
	[]string{"component"},
)

// RecordComponentPing records the outcome and latency of a component health ping.
func RecordComponentPing(component string, latency time.Duration, err error) {
	up := 1.0
	if err != nil {
		up = 0
	}

	componentUp.WithLabelValues(component).Set(up)
	componentPingDurationSeconds.WithLabelValues(component).Observe(latency.Seconds())
}
