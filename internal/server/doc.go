// Package server holds the process-wide state of the MCP server and its HTTP
// surfaces.
//
// # Key Components
//
// ServerContext owns the site registry, the lazily built Google API clients
// (Services), the report dispatcher and the observability hooks shared by
// every tool handler.
//
// Services builds the Search Console and GA4 clients on first use from the
// service account credential and reuses them afterwards. A failed build is
// reported as an analytics.InitializationError and retried on the next call.
//
// HTTPServer exposes the MCP streamable HTTP transport at /mcp together with
// the /healthz, /readyz and /healthz/detailed probes.
//
// MetricsServer serves Prometheus metrics on a dedicated port.
package server
