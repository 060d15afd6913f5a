package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name of the service tracer.
const TracerName = "chat-vibes"

// Span attribute keys
const (
	AttrSessionID = "session_id"
	AttrFileName  = "file_name"
	AttrBytes     = "bytes"
	AttrGrammar   = "grammar"
	AttrDateOrder = "date_order"
	AttrMessages  = "messages"
	AttrMetric    = "metric"
	AttrLimit     = "limit"
	AttrModel     = "model"
)

// Span names
const (
	SpanDecode    = "ingest.decode"
	SpanParse     = "transcript.parse"
	SpanSession   = "session.create"
	SpanAnalysis  = "analysis.compute"
	SpanNarrative = "narrator.generate"
)

// Tracer starts the spans of the service. Without a configured provider the
// global otel tracer is a no-op.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer backed by the global provider.
func NewTracer() *Tracer {
	return &Tracer{tracer: otel.Tracer(TracerName)}
}

// StartDecodeSpan starts a span for decoding an uploaded file.
func (t *Tracer) StartDecodeSpan(ctx context.Context, fileName string, size int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanDecode,
		trace.WithAttributes(
			attribute.String(AttrFileName, fileName),
			attribute.Int(AttrBytes, size),
		),
	)
}

// StartParseSpan starts a span for parsing transcript text.
func (t *Tracer) StartParseSpan(ctx context.Context, size int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanParse,
		trace.WithAttributes(attribute.Int(AttrBytes, size)),
	)
}

// StartSessionSpan starts a span for storing a new session.
func (t *Tracer) StartSessionSpan(ctx context.Context) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanSession)
}

// StartAnalysisSpan starts a span for one metric computation.
func (t *Tracer) StartAnalysisSpan(ctx context.Context, sessionID, metric string, limit int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanAnalysis,
		trace.WithAttributes(
			attribute.String(AttrSessionID, sessionID),
			attribute.String(AttrMetric, metric),
			attribute.Int(AttrLimit, limit),
		),
	)
}

// StartNarrativeSpan starts a span for an LLM narrative.
func (t *Tracer) StartNarrativeSpan(ctx context.Context, model string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanNarrative,
		trace.WithAttributes(attribute.String(AttrModel, model)),
	)
}

// SpanHelper sets common attributes on a span.
type SpanHelper struct {
	span trace.Span
}

// NewSpanHelper wraps span.
func NewSpanHelper(span trace.Span) *SpanHelper {
	return &SpanHelper{span: span}
}

// SetParseResult records what a parse pass found.
func (h *SpanHelper) SetParseResult(grammar, dateOrder string, messages int) {
	h.span.SetAttributes(
		attribute.String(AttrGrammar, grammar),
		attribute.String(AttrDateOrder, dateOrder),
		attribute.Int(AttrMessages, messages),
	)
}

// SetSession records the session id.
func (h *SpanHelper) SetSession(id string) {
	h.span.SetAttributes(attribute.String(AttrSessionID, id))
}

// SetError records err and marks the span failed.
func (h *SpanHelper) SetError(err error) {
	h.span.SetStatus(codes.Error, err.Error())
	h.span.RecordError(err)
}

// SetSuccess marks the span successful.
func (h *SpanHelper) SetSuccess() {
	h.span.SetStatus(codes.Ok, "")
}
