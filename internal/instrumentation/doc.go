// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for the unified-analytics MCP server.
//
// # Metrics
//
// Server/HTTP Metrics (streamable-http transport only):
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - mcp_active_sessions: Gauge of registered MCP sessions
//
// Google API Metrics:
//   - google_api_operations_total: Counter of upstream calls by service (gsc, ga4), operation, status
//   - google_api_operation_duration_seconds: Histogram of upstream call durations
//   - google_api_rows_returned: Histogram of rows returned per successful call
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of tool invocations by tool and status
//   - mcp_tool_duration_seconds: Histogram of tool durations
//   - report_cache_lookups_total: Counter of report cache lookups by tool and result
//
// # Tracing
//
// Spans are created for tool invocations (tool.<name>) and upstream calls
// (google.gsc.searchanalytics.query, google.ga4.runReport).
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - METRICS_DETAILED_LABELS: add the site label to tool metrics
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_ARGS, AUDIT_LOGGING_LEVEL
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordGoogleAPIOperation(ctx,
//		instrumentation.ServiceAnalytics, instrumentation.OperationRunReport,
//		instrumentation.StatusSuccess, len(rows), time.Since(start))
package instrumentation
