package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer name used for all spans created by this module.
const TracerName = "github.com/teemow/unified-analytics"

// Span attribute keys.
const (
	SpanAttrTool        = "mcp.tool"
	SpanAttrResourceURI = "mcp.resource_uri"
	SpanAttrSite        = "analytics.site"
	SpanAttrService     = "google.service"
	SpanAttrOperation   = "google.operation"
	SpanAttrProperty    = "google.property"
	SpanAttrRowLimit    = "google.row_limit"
	SpanAttrRows        = "google.rows"
	SpanAttrCacheHit    = "cache.hit"
)

// SpanAttributeBuilder collects span attributes with consistent naming.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{attrs: make([]attribute.KeyValue, 0, 8)}
}

// WithTool adds the MCP tool name.
func (b *SpanAttributeBuilder) WithTool(tool string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrTool, tool))
	return b
}

// WithSite adds the site key. Empty values are skipped.
func (b *SpanAttributeBuilder) WithSite(site string) *SpanAttributeBuilder {
	if site != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrSite, site))
	}
	return b
}

// WithProperty adds the upstream property (GSC site URL or GA4 property).
func (b *SpanAttributeBuilder) WithProperty(property string) *SpanAttributeBuilder {
	if property != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrProperty, property))
	}
	return b
}

// WithRowLimit adds the requested row limit.
func (b *SpanAttributeBuilder) WithRowLimit(limit int64) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Int64(SpanAttrRowLimit, limit))
	return b
}

// WithResourceURI adds the MCP resource URI.
func (b *SpanAttributeBuilder) WithResourceURI(uri string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrResourceURI, uri))
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// RowsAttribute records the number of rows an upstream call returned.
func RowsAttribute(rows int) attribute.KeyValue {
	return attribute.Int(SpanAttrRows, rows)
}

// CacheHitAttribute records whether a report was served from cache.
func CacheHitAttribute(hit bool) attribute.KeyValue {
	return attribute.Bool(SpanAttrCacheHit, hit)
}

// StartSpan starts a new internal span. The caller must end it.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartToolSpan starts a server span for an MCP tool invocation.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := make([]attribute.KeyValue, 0, len(attrs)+1)
	all = append(all, attribute.String(SpanAttrTool, toolName))
	all = append(all, attrs...)

	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "tool."+toolName,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartGoogleAPISpan starts a client span for a Google API call, named
// google.<service>.<operation>.
func StartGoogleAPISpan(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := make([]attribute.KeyValue, 0, len(attrs)+2)
	all = append(all,
		attribute.String(SpanAttrService, service),
		attribute.String(SpanAttrOperation, operation),
	)
	all = append(all, attrs...)

	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "google."+service+"."+operation,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records err on the span and marks it failed. A nil err is ignored.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID of the span in ctx, or "".
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// GetSpanID returns the span ID of the span in ctx, or "".
func GetSpanID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.IsValid() {
		return sc.SpanID().String()
	}
	return ""
}
