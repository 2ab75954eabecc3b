package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides a self-contained Prometheus registry with transfer-level
// counters partitioned by object-size bucket. It is injected into the engine
// as the shared, thread-safe counter service; atomic increments come from the
// prometheus client.
type Metrics struct {
	reg       *prometheus.Registry
	transfers *prometheus.CounterVec
	parts     *prometheus.CounterVec
	bytes     *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
}

// New creates a Metrics instance with a fresh registry and registers collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	transfers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portage",
		Subsystem: "transfer",
		Name:      "transfers_total",
		Help:      "Total transfers by size bucket and result.",
	}, []string{"bucket", "result"}) // result = "done" | "failed"
	parts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portage",
		Subsystem: "transfer",
		Name:      "parts_total",
		Help:      "Total uploaded parts by size bucket.",
	}, []string{"bucket"})
	bytes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portage",
		Subsystem: "transfer",
		Name:      "bytes_total",
		Help:      "Total relayed bytes by size bucket.",
	}, []string{"bucket"})
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portage",
		Subsystem: "transfer",
		Name:      "strategy_fallbacks_total",
		Help:      "Quota rejections that forced a smaller chunk strategy, by size bucket.",
	}, []string{"bucket"})

	_ = reg.Register(transfers)
	_ = reg.Register(parts)
	_ = reg.Register(bytes)
	_ = reg.Register(fallbacks)

	return &Metrics{
		reg:       reg,
		transfers: transfers,
		parts:     parts,
		bytes:     bytes,
		fallbacks: fallbacks,
	}
}

// Handler returns an http.Handler serving Prometheus metrics from the
// internal registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// SizeBucket maps an object size onto a coarse label so counter cardinality
// stays bounded.
func SizeBucket(size int64) string {
	const miB = int64(1 << 20)
	switch {
	case size < 0:
		return "unknown"
	case size <= 10*miB:
		return "<=10MiB"
	case size <= 100*miB:
		return "<=100MiB"
	case size <= 1024*miB:
		return "<=1GiB"
	default:
		return ">1GiB"
	}
}

func (m *Metrics) TransferDone(size int64) {
	m.transfers.WithLabelValues(SizeBucket(size), "done").Inc()
}

func (m *Metrics) TransferFailed(size int64) {
	m.transfers.WithLabelValues(SizeBucket(size), "failed").Inc()
}

func (m *Metrics) PartUploaded(objectSize, partSize int64) {
	bucket := SizeBucket(objectSize)
	m.parts.WithLabelValues(bucket).Inc()
	m.bytes.WithLabelValues(bucket).Add(float64(partSize))
}

func (m *Metrics) StrategyFallback(objectSize int64) {
	m.fallbacks.WithLabelValues(SizeBucket(objectSize)).Inc()
}
