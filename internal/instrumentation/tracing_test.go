package instrumentation

import (
	"context"
	"errors"
	"testing"
)

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("ga4_top_pages").
		WithSite("vesivanov").
		WithProperty("properties/123").
		WithRowLimit(20).
		WithResourceURI("analytics://dashboard/week/vesivanov").
		Build()

	if len(attrs) != 5 {
		t.Fatalf("expected 5 attributes, got %d", len(attrs))
	}

	attrMap := make(map[string]interface{})
	for _, attr := range attrs {
		attrMap[string(attr.Key)] = attr.Value.AsInterface()
	}

	if attrMap[SpanAttrTool] != "ga4_top_pages" {
		t.Errorf("expected tool 'ga4_top_pages', got %v", attrMap[SpanAttrTool])
	}
	if attrMap[SpanAttrSite] != "vesivanov" {
		t.Errorf("expected site 'vesivanov', got %v", attrMap[SpanAttrSite])
	}
	if attrMap[SpanAttrProperty] != "properties/123" {
		t.Errorf("expected property 'properties/123', got %v", attrMap[SpanAttrProperty])
	}
	if attrMap[SpanAttrRowLimit] != int64(20) {
		t.Errorf("expected row limit 20, got %v", attrMap[SpanAttrRowLimit])
	}
}

func TestSpanAttributeBuilder_EmptyValues(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("gsc_top_queries").
		WithSite("").
		WithProperty("").
		Build()

	if len(attrs) != 1 {
		t.Errorf("expected only the tool attribute, got %d attributes", len(attrs))
	}
}

func TestStartToolSpan(t *testing.T) {
	ctx, span := StartToolSpan(context.Background(), "page_analysis")
	defer span.End()

	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
	// Without a configured provider the global tracer is a no-op
	if GetTraceID(ctx) != "" {
		t.Errorf("expected empty trace ID with no-op tracer, got %q", GetTraceID(ctx))
	}
	if GetSpanID(ctx) != "" {
		t.Errorf("expected empty span ID with no-op tracer, got %q", GetSpanID(ctx))
	}
}

func TestStartGoogleAPISpan(t *testing.T) {
	_, span := StartGoogleAPISpan(context.Background(), ServiceAnalytics, OperationRunReport)
	defer span.End()

	SetSpanError(span, errors.New("quota exceeded"))
	SetSpanError(span, nil)
	SetSpanSuccess(span)
}

func TestStartSpan(t *testing.T) {
	_, span := StartSpan(context.Background(), "dispatch.resource")
	span.End()
}

func TestAttributeHelpers(t *testing.T) {
	rows := RowsAttribute(42)
	if string(rows.Key) != SpanAttrRows || rows.Value.AsInt64() != 42 {
		t.Errorf("RowsAttribute = %v", rows)
	}
	hit := CacheHitAttribute(true)
	if string(hit.Key) != SpanAttrCacheHit || !hit.Value.AsBool() {
		t.Errorf("CacheHitAttribute = %v", hit)
	}
}
