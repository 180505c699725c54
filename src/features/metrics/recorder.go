package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes the ingestion pipeline counters on the Prometheus
// registry. It is the metrics sink the songs feature reports into.
type Recorder struct {
	ingested    prometheus.Counter
	failures    *prometheus.CounterVec
	librarySize prometheus.Gauge
}

// NewRecorder registers the chorus collectors on the default registry.
// Call it once at startup.
func NewRecorder() *Recorder {
	return &Recorder{
		ingested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chorus_songs_ingested_total",
			Help: "Songs successfully added to the library.",
		}),
		failures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chorus_ingest_failures_total",
			Help: "Failed ingestion attempts by failure reason.",
		}, []string{"reason"}),
		librarySize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "chorus_library_songs",
			Help: "Number of songs currently in the library.",
		}),
	}
}

// SongIngested records a successful ingestion.
func (r *Recorder) SongIngested() {
	r.ingested.Inc()
	r.librarySize.Inc()
}

// SongDeleted records a song removal.
func (r *Recorder) SongDeleted() {
	r.librarySize.Dec()
}

// IngestFailed records a failed ingestion attempt.
func (r *Recorder) IngestFailed(reason string) {
	r.failures.WithLabelValues(reason).Inc()
}

// SetLibrarySize seeds the size gauge, typically from the database at boot.
func (r *Recorder) SetLibrarySize(n int) {
	r.librarySize.Set(float64(n))
}
