package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/teemow/unified-analytics/internal/analytics"
	"github.com/teemow/unified-analytics/internal/config"
	"github.com/teemow/unified-analytics/internal/dispatch"
	"github.com/teemow/unified-analytics/internal/instrumentation"
	"github.com/teemow/unified-analytics/internal/server"
)

func newServerContext(t *testing.T, opts ...server.Option) *server.ServerContext {
	t.Helper()
	sites, err := config.NewRegistry([]config.SiteConfig{
		{Key: "vesivanov", GSCURL: "https://vesivanov.com/", GA4PropertyID: "111"},
	})
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	factory := func(context.Context) (analytics.Handles, error) {
		return analytics.Handles{}, errors.New("not used")
	}
	sc := server.NewServerContext(context.Background(), sites, factory, opts...)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestInstrumentedToolHandler_Success(t *testing.T) {
	sc := newServerContext(t)

	called := false
	handler := func(ctx context.Context, req mcp.CallToolRequest) dispatch.Result {
		called = true
		return dispatch.Result{Text: `{"row_count": 0}`, Site: "vesivanov"}
	}

	wrapped := InstrumentedToolHandler("gsc_top_queries", sc, handler)
	result, err := wrapped(context.Background(), mcp.CallToolRequest{})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !called {
		t.Error("expected handler to be called")
	}
	if result.IsError {
		t.Error("expected success result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok || text.Text != `{"row_count": 0}` {
		t.Errorf("unexpected content: %#v", result.Content)
	}
}

func TestInstrumentedToolHandler_ErrorPayload(t *testing.T) {
	sc := newServerContext(t)

	handler := func(ctx context.Context, req mcp.CallToolRequest) dispatch.Result {
		return dispatch.Result{
			Text:    `{"error": "Unknown tool: nope"}`,
			IsError: true,
			Err:     &analytics.UnknownToolError{Name: "nope"},
		}
	}

	wrapped := InstrumentedToolHandler("nope", sc, handler)
	result, err := wrapped(context.Background(), mcp.CallToolRequest{})

	if err != nil {
		t.Fatalf("error payloads must not surface as Go errors, got %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError to be set")
	}
}

func TestInstrumentedToolHandler_WithMetricsAndAudit(t *testing.T) {
	metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), true)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	audit := instrumentation.NewAuditLogger(logger)

	sc := newServerContext(t, server.WithMetrics(metrics), server.WithAuditLogger(audit))

	handler := func(ctx context.Context, req mcp.CallToolRequest) dispatch.Result {
		return dispatch.Result{Text: "{}", Site: "vesivanov", CacheHit: true}
	}

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"site": "vesivanov"}

	if _, err := InstrumentedToolHandler("ga4_traffic_overview", sc, handler)(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"msg":"tool_executed"`, `"tool":"ga4_traffic_overview"`, `"site":"vesivanov"`, `"cache_hit":true`, `"invocation_id"`} {
		if !strings.Contains(out, want) {
			t.Errorf("audit log missing %s: %s", want, out)
		}
	}
	if strings.Contains(out, `"arguments"`) {
		t.Errorf("arguments must not be logged by default: %s", out)
	}
}

func TestInstrumentedResourceHandler(t *testing.T) {
	sc := newServerContext(t)

	tests := []struct {
		name string
		res  dispatch.Result
	}{
		{
			name: "success",
			res:  dispatch.Result{Text: `{"report_type": "combined_performance"}`, Site: "vesivanov"},
		},
		{
			name: "error payload",
			res: dispatch.Result{
				Text:    `{"error": "Error reading resource analytics://dashboard/decade: Unknown resource: analytics://dashboard/decade"}`,
				IsError: true,
				Err:     &analytics.UnknownResourceError{URI: "analytics://dashboard/decade"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := func(ctx context.Context, req mcp.ReadResourceRequest) dispatch.Result {
				return tt.res
			}

			req := mcp.ReadResourceRequest{}
			req.Params.URI = "analytics://dashboard/today"

			contents, err := InstrumentedResourceHandler(sc, handler)(context.Background(), req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(contents) != 1 {
				t.Fatalf("expected 1 content, got %d", len(contents))
			}
			text, ok := contents[0].(mcp.TextResourceContents)
			if !ok {
				t.Fatalf("expected TextResourceContents, got %T", contents[0])
			}
			if text.URI != req.Params.URI {
				t.Errorf("URI = %q, want %q", text.URI, req.Params.URI)
			}
			if text.MIMEType != "application/json" {
				t.Errorf("MIMEType = %q", text.MIMEType)
			}
			if text.Text != tt.res.Text {
				t.Errorf("Text = %q, want %q", text.Text, tt.res.Text)
			}
		})
	}
}
