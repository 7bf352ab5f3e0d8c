package common

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/unified-analytics/internal/dispatch"
	"github.com/teemow/unified-analytics/internal/instrumentation"
	"github.com/teemow/unified-analytics/internal/server"
)

// ResourceToolLabel is the tool label recorded for dashboard resource reads.
const ResourceToolLabel = "resource_dashboard"

// ToolHandler runs one tool call and returns the dispatcher result.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest) dispatch.Result

// ResourceHandler reads one resource and returns the dispatcher result.
type ResourceHandler func(ctx context.Context, request mcp.ReadResourceRequest) dispatch.Result

// InstrumentedToolHandler wraps handler with a tool span, metrics and audit
// logging, and converts its result into an MCP tool result. Error payloads
// are returned with IsError set, never as a Go error.
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandler("gsc_top_queries", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) mcpserver.ToolHandlerFunc {
	label := instrumentation.BoundedLabel(toolName, dispatch.ToolNames())

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, label)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName, uuid.NewString()).
			WithSpanContext(ctx)
		if args := request.GetArguments(); args != nil {
			if data, err := json.Marshal(args); err == nil {
				invocation.WithArguments(string(data))
			}
		}

		start := time.Now()
		res := handler(ctx, request)
		finish(ctx, sc, label, invocation, res, time.Since(start))

		if res.IsError {
			instrumentation.SetSpanError(span, res.Err)
			return mcp.NewToolResultError(res.Text), nil
		}
		instrumentation.SetSpanSuccess(span)
		return mcp.NewToolResultText(res.Text), nil
	}
}

// InstrumentedResourceHandler is InstrumentedToolHandler for resource reads.
// Error payloads are returned as the resource text.
func InstrumentedResourceHandler(sc *server.ServerContext, handler ResourceHandler) mcpserver.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		uri := request.Params.URI
		ctx, span := instrumentation.StartToolSpan(ctx, ResourceToolLabel,
			instrumentation.NewSpanAttributeBuilder().WithResourceURI(uri).Build()...)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(ResourceToolLabel, uuid.NewString()).
			WithSpanContext(ctx).
			WithArguments(uri)

		start := time.Now()
		res := handler(ctx, request)
		finish(ctx, sc, ResourceToolLabel, invocation, res, time.Since(start))

		if res.IsError {
			instrumentation.SetSpanError(span, res.Err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     res.Text,
			},
		}, nil
	}
}

func finish(ctx context.Context, sc *server.ServerContext, label string, invocation *instrumentation.ToolInvocation, res dispatch.Result, duration time.Duration) {
	site := instrumentation.BoundedLabel(res.Site, sc.Sites().Keys())
	if res.Site != "" {
		invocation.WithSite(res.Site)
	}
	if res.CacheHit {
		invocation.MarkCacheHit()
	}

	status := instrumentation.StatusSuccess
	if res.IsError {
		status = instrumentation.StatusError
		invocation.CompleteWithError(res.Err)
	} else {
		invocation.CompleteSuccess()
	}
	invocation.Duration = duration

	sc.Metrics().RecordToolInvocation(ctx, label, site, status, duration)
	sc.AuditLogger().LogToolInvocation(ctx, invocation)
}
