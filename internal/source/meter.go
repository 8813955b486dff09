package source

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts tokenizer input and output.
type Metrics struct {
	reads  prometheus.Counter
	bytes  prometheus.Counter
	events *prometheus.CounterVec
	errors prometheus.Counter
}

// NewMetrics registers the counters with r.
func NewMetrics(r prometheus.Registerer) *Metrics {
	return &Metrics{
		reads: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Name: "xmltok_source_reads_total",
			Help: "Total number of reads issued against byte sources.",
		}),
		bytes: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Name: "xmltok_source_bytes_total",
			Help: "Total number of bytes read from byte sources.",
		}),
		events: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "xmltok_events_total",
			Help: "Total number of events produced, by kind.",
		}, []string{"kind"}),
		errors: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Name: "xmltok_errors_total",
			Help: "Total number of streams that ended with an error.",
		}),
	}
}

// ObserveEvent counts one event of the given kind.
func (m *Metrics) ObserveEvent(kind string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(kind).Inc()
}

// ObserveError counts one failed stream.
func (m *Metrics) ObserveError() {
	if m == nil {
		return
	}
	m.errors.Inc()
}

// Meter wraps r so every Read is counted. A nil m disables counting.
func Meter(r io.Reader, m *Metrics) io.Reader {
	if m == nil {
		return r
	}
	return &meteredReader{r: r, m: m}
}

type meteredReader struct {
	r io.Reader
	m *Metrics
}

func (mr *meteredReader) Read(p []byte) (int, error) {
	n, err := mr.r.Read(p)
	mr.m.reads.Inc()
	if n > 0 {
		mr.m.bytes.Add(float64(n))
	}
	return n, err
}
