// Package cmd implements the command-line interface for unified-analytics.
//
// This package provides the following commands:
//   - serve: Start the MCP server (stdio or streamable HTTP)
//   - call: Run one tool and print its JSON payload
//   - check-credentials: Verify the service account key and the site list
//   - generate-docs: Generate markdown documentation for all MCP tools and resources
//   - version: Display version information
package cmd
