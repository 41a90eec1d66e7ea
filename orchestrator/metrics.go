package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/quay/hound/orchestrator")

var taskFaults = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "hound",
		Subsystem: "orchestrator",
		Name:      "task_fault_total",
		Help:      "Total number of verification tasks that failed unexpectedly.",
	},
)
