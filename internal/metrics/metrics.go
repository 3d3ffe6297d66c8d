// Package metrics defines the Prometheus collectors for the trip planner.
// All methods are safe to call on a nil *Metrics so tests and tools can skip
// instrumentation entirely.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every collector the application reports into.
type Metrics struct {
	Mutations          *prometheus.CounterVec
	WriteConflicts     prometheus.Counter
	MetadataFallbacks  *prometheus.CounterVec
	MetadataCacheHits  prometheus.Counter
	NotificationErrors prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripplanner",
			Name:      "trip_mutations_total",
			Help:      "Trip document mutations persisted, by operation.",
		}, []string{"op"}),
		WriteConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tripplanner",
			Name:      "trip_write_conflicts_total",
			Help:      "Versioned trip writes rejected because the document changed underneath.",
		}),
		MetadataFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripplanner",
			Name:      "link_metadata_fallbacks_total",
			Help:      "Link previews served from the URL-derived fallback, by reason.",
		}, []string{"reason"}),
		MetadataCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tripplanner",
			Name:      "link_metadata_cache_hits_total",
			Help:      "Link previews served from the in-process cache.",
		}),
		NotificationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tripplanner",
			Name:      "notification_errors_total",
			Help:      "Activity notifications that could not be delivered.",
		}),
	}
	reg.MustRegister(m.Mutations, m.WriteConflicts, m.MetadataFallbacks, m.MetadataCacheHits, m.NotificationErrors)
	return m
}

// Mutation records a persisted mutation.
func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op).Inc()
}

// WriteConflict records a lost optimistic write.
func (m *Metrics) WriteConflict() {
	if m == nil {
		return
	}
	m.WriteConflicts.Inc()
}

// MetadataFallback records a preview built from the fallback title.
func (m *Metrics) MetadataFallback(reason string) {
	if m == nil {
		return
	}
	m.MetadataFallbacks.WithLabelValues(reason).Inc()
}

// MetadataCacheHit records a cached preview.
func (m *Metrics) MetadataCacheHit() {
	if m == nil {
		return
	}
	m.MetadataCacheHits.Inc()
}

// NotificationError records a failed notification.
func (m *Metrics) NotificationError() {
	if m == nil {
		return
	}
	m.NotificationErrors.Inc()
}
