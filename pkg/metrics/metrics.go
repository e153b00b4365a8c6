package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chapter sources recorded by ChaptersTotal.
const (
	SourceCache   = "cache"
	SourceNetwork = "network"
	SourceFailed  = "failed"
)

// Metrics holds the counters of one run.
type Metrics struct {
	registry *prometheus.Registry

	ChaptersTotal  *prometheus.CounterVec
	TocFetchErrors prometheus.Counter
	VolumesEmitted *prometheus.CounterVec
	FetchDuration  prometheus.Histogram
	ManifestWrites prometheus.Counter
}

// New registers the run counters on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ChaptersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "novelpack_chapters_total",
			Help: "Chapters resolved, by where the content came from.",
		}, []string{"source"}), // cache, network, failed
		TocFetchErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "novelpack_toc_fetch_errors_total",
			Help: "Failed table-of-contents fetches.",
		}),
		VolumesEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "novelpack_volumes_emitted_total",
			Help: "Volume documents written, by format.",
		}, []string{"format"}),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "novelpack_fetch_duration_seconds",
			Help:    "Duration of page fetches.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ManifestWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "novelpack_manifest_writes_total",
			Help: "Manifest files written.",
		}),
	}
}

// IncChapter counts one resolved chapter from source.
func (m *Metrics) IncChapter(source string) {
	m.ChaptersTotal.WithLabelValues(source).Inc()
}

// IncVolume counts one emitted volume document.
func (m *Metrics) IncVolume(format string) {
	m.VolumesEmitted.WithLabelValues(format).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values in the text exposition format to path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
