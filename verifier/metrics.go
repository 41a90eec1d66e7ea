package verifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/quay/hound/verifier")

var (
	probeCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hound",
			Subsystem: "verifier",
			Name:      "probe_total",
			Help:      "Total number of existence probes issued, by outcome.",
		},
		[]string{"ecosystem", "result"},
	)
	probeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hound",
			Subsystem: "verifier",
			Name:      "probe_duration_seconds",
			Help:      "The duration of existence probes.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"ecosystem"},
	)
	resultCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hound",
			Subsystem: "verifier",
			Name:      "result_total",
			Help:      "Total number of verification results, by whether the artifact was found.",
		},
		[]string{"ecosystem", "found"},
	)
)

var (
	pathKey       = attribute.Key("hound.path")
	ecosystemKey  = attribute.Key("hound.ecosystem")
	nameKey       = attribute.Key("hound.name")
	versionKey    = attribute.Key("hound.version")
	repositoryKey = attribute.Key("hound.repository")
	foundKey      = attribute.Key("hound.found")
)
