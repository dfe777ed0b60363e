package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

// metrics are the server's render and stream collectors.
type metrics struct {
	renders     *prometheus.CounterVec
	duration    prometheus.Histogram
	sinkCalls   *prometheus.CounterVec
	mounts      prometheus.Gauge
	subscribers prometheus.Gauge
	frames      *prometheus.CounterVec
	frameBytes  prometheus.Counter
	drops       prometheus.Counter
	snapshots   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	const ns = "vdiff"

	return &metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "renders_total",
			Help:      "Render passes by outcome",
		}, []string{"status"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "render_duration_seconds",
			Help:      "Reconciliation time of successful render passes",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),

		sinkCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "sink_calls_total",
			Help:      "Mutation sink calls issued by successful render passes",
		}, []string{"op"}),

		mounts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "mounts",
			Help:      "Live mount points",
		}),

		subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "subscribers",
			Help:      "Connected stream subscribers",
		}),

		frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "frames_sent_total",
			Help:      "Frames written to subscribers",
		}, []string{"type"}),

		frameBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "frame_bytes_sent_total",
			Help:      "Bytes written to subscribers",
		}),

		drops: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "subscriber_drops_total",
			Help:      "Subscribers disconnected for falling behind",
		}),

		snapshots: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "snapshots_total",
			Help:      "Snapshot exports by outcome",
		}, []string{"status"}),
	}
}

func (m *metrics) observeRender(stats vdom.RenderStats) {
	m.duration.Observe(stats.Duration.Seconds())
	for op, n := range stats.Calls {
		m.sinkCalls.WithLabelValues(op.String()).Add(float64(n))
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
