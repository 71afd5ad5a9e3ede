package ringlog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics bundles the Prometheus collectors the OutputWorker updates.
// Grounded on the promauto-registered counter/gauge pattern used for
// runtime observability in the retrieval pack's metrics package — adapted
// here from game-server counters to ring/queue counters.
type metrics struct {
	framesDispatched prometheus.Counter
	bytesFlushed     prometheus.Counter
	wraparounds      prometheus.Counter
	queueFullEvents  prometheus.Counter
	sinkGiveUps      prometheus.Counter
	queueDepth       prometheus.Gauge
}

// newMetrics registers collectors against reg. A nil reg registers them
// against a fresh private registry instead, so the collectors still count
// but are not exposed anywhere, and New always gets a non-nil *metrics.
func newMetrics(reg prometheus.Registerer, namespace string) *metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &metrics{
		framesDispatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "frames_dispatched_total",
			Help: "Frames dispatched by the output worker.",
		}),
		bytesFlushed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "bytes_flushed_total",
			Help: "Bytes written to the sink.",
		}),
		wraparounds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "ring_wraparounds_total",
			Help: "Times a producer ring wrapped to its physical start.",
		}),
		queueFullEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "shared_queue_full_total",
			Help: "Times the output worker was woken by a producer that found the shared queue full.",
		}),
		sinkGiveUps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "sink_give_ups_total",
			Help: "Times the sink transitioned to the permanently-failed state.",
		}),
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "shared_queue_depth",
			Help: "Approximate number of commit extents waiting in the shared queue.",
		}),
	}
}
