// Package observability holds the Prometheus metrics and OpenTelemetry spans
// of the API server.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upload outcomes used as the status label of UploadsTotal.
const (
	UploadAccepted    = "accepted"
	UploadRejected    = "rejected"
	UploadUnparseable = "unparseable"
)

// Metrics holds every Prometheus collector of the service.
type Metrics struct {
	// Ingest
	UploadsTotal     *prometheus.CounterVec
	UploadBytes      prometheus.Histogram
	ParseSeconds     prometheus.Histogram
	MessagesParsed   prometheus.Counter
	DroppedRows      prometheus.Counter
	GrammarsSelected *prometheus.CounterVec

	// Sessions
	ActiveSessions   prometheus.Gauge
	SessionEvictions prometheus.Counter

	// Analysis
	AnalysisRequests *prometheus.CounterVec
	AnalysisSeconds  *prometheus.HistogramVec
	Narratives       *prometheus.CounterVec
	StreamClients    *prometheus.GaugeVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		UploadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatvibes_uploads_total",
				Help: "Transcript uploads by outcome",
			},
			[]string{"status"},
		),
		UploadBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatvibes_upload_bytes",
				Help:    "Size of uploaded files",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
			},
		),
		ParseSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatvibes_parse_seconds",
				Help:    "Time spent parsing one transcript",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
		),
		MessagesParsed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chatvibes_messages_parsed_total",
				Help: "Messages reconstructed from transcripts",
			},
		),
		DroppedRows: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chatvibes_dropped_rows_total",
				Help: "Messages dropped because their timestamp could not be read",
			},
		),
		GrammarsSelected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatvibes_grammar_selected_total",
				Help: "Line grammar and date order chosen per transcript",
			},
			[]string{"grammar", "date_order"},
		),
		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "chatvibes_active_sessions",
				Help: "Sessions currently held in memory",
			},
		),
		SessionEvictions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chatvibes_session_evictions_total",
				Help: "Sessions evicted to respect the session limit",
			},
		),
		AnalysisRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatvibes_analysis_requests_total",
				Help: "Analysis requests by metric and outcome",
			},
			[]string{"metric", "status"},
		),
		AnalysisSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chatvibes_analysis_seconds",
				Help:    "Time spent computing one metric",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"metric"},
		),
		Narratives: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatvibes_narratives_total",
				Help: "Narratives produced by source",
			},
			[]string{"source"},
		),
		StreamClients: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "chatvibes_stream_clients",
				Help: "Connected streaming clients by transport",
			},
			[]string{"transport"},
		),
	}
}

// ObserveParse records one parse pass.
func (m *Metrics) ObserveParse(grammar, dateOrder string, messages, dropped int, took time.Duration) {
	m.ParseSeconds.Observe(took.Seconds())
	m.MessagesParsed.Add(float64(messages))
	m.DroppedRows.Add(float64(dropped))
	m.GrammarsSelected.WithLabelValues(grammar, dateOrder).Inc()
}

// ObserveAnalysis records one metric computation.
func (m *Metrics) ObserveAnalysis(metric, status string, took time.Duration) {
	m.AnalysisRequests.WithLabelValues(metric, status).Inc()
	if status == "ok" {
		m.AnalysisSeconds.WithLabelValues(metric).Observe(took.Seconds())
	}
}
