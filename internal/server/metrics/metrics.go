// Package metrics exposes Prometheus instrumentation for the media server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	BytesUploaded     prometheus.Counter       // gophmedia_uploaded_bytes_total
	QuotaBreaches     prometheus.Counter       // gophmedia_quota_breaches_total
	MultipartCleanups *prometheus.CounterVec   // gophmedia_multipart_cleanups_total{result}
	Reorders          prometheus.Counter       // gophmedia_reorders_total
	EventsHandled     *prometheus.CounterVec   // gophmedia_events_handled_total{kind,action,result}
	SourceFailures    *prometheus.CounterVec   // gophmedia_event_source_failures_total{kind}
	RPCDuration       *prometheus.HistogramVec // gophmedia_rpc_duration_seconds{method,code}
}

// New registers the collectors on registry (prometheus.DefaultRegisterer
// when nil).
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	f := promauto.With(registry)

	return &Metrics{
		BytesUploaded: f.NewCounter(prometheus.CounterOpts{
			Name: "gophmedia_uploaded_bytes_total",
			Help: "Bytes accepted for storage, whole-object and multipart",
		}),
		QuotaBreaches: f.NewCounter(prometheus.CounterOpts{
			Name: "gophmedia_quota_breaches_total",
			Help: "Uploads rejected because the storage quota was exceeded",
		}),
		MultipartCleanups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gophmedia_multipart_cleanups_total",
			Help: "Multipart uploads rolled back after a quota breach",
		}, []string{"result"}),
		Reorders: f.NewCounter(prometheus.CounterOpts{
			Name: "gophmedia_reorders_total",
			Help: "Asset offer reorders that moved at least one association",
		}),
		EventsHandled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gophmedia_events_handled_total",
			Help: "Authorization events by kind, action and result",
		}, []string{"kind", "action", "result"}),
		SourceFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gophmedia_event_source_failures_total",
			Help: "Event bus fetch or subscribe failures that were retried",
		}, []string{"kind"}),
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gophmedia_rpc_duration_seconds",
			Help:    "gRPC handler duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}
}

func (m *Metrics) RecordUpload(bytes int64) {
	if m == nil {
		return
	}
	m.BytesUploaded.Add(float64(bytes))
}

func (m *Metrics) RecordQuotaBreach() {
	if m == nil {
		return
	}
	m.QuotaBreaches.Inc()
}

func (m *Metrics) RecordCleanup(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.MultipartCleanups.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordReorder() {
	if m == nil {
		return
	}
	m.Reorders.Inc()
}

func (m *Metrics) RecordEvent(kind, action, result string) {
	if m == nil {
		return
	}
	m.EventsHandled.WithLabelValues(kind, action, result).Inc()
}

func (m *Metrics) RecordSourceFailure(kind string) {
	if m == nil {
		return
	}
	m.SourceFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordRPC(method, code string, seconds float64) {
	if m == nil {
		return
	}
	m.RPCDuration.WithLabelValues(method, code).Observe(seconds)
}
