package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	SourceAPI    = "api"
	SourceSeed   = "seed"
	SourceImport = "import"
)

var (
	entriesWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moodsignage",
		Subsystem: "entries",
		Name:      "written_total",
		Help:      "Mood entries upserted, by the path that wrote them.",
	}, []string{"source"})
	windowDays = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "moodsignage",
		Subsystem: "entries",
		Name:      "window_days",
		Help:      "Size in days of the windows requested from the entries API.",
		Buckets:   []float64{7, 14, 28, 56, 91, 182, 365, 730, 3660},
	})
	lastWrite = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "moodsignage",
		Subsystem: "entries",
		Name:      "last_write_timestamp_seconds",
		Help:      "Unix timestamp of the most recent entry write.",
	})
)

func init() {
	prometheus.MustRegister(entriesWritten, windowDays, lastWrite)
}

// RecordEntriesWritten counts n upserts from source and moves the write watermark.
func RecordEntriesWritten(source string, n int, ts time.Time) {
	if n <= 0 {
		return
	}
	entriesWritten.WithLabelValues(source).Add(float64(n))
	if !ts.IsZero() {
		lastWrite.Set(float64(ts.Unix()))
	}
}

// RecordWindow observes the size of a served query window.
func RecordWindow(days int) {
	windowDays.Observe(float64(days))
}
