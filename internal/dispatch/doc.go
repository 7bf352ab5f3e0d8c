// Package dispatch turns MCP tool calls and resource reads into reports.
//
// Tool names are parsed into the closed ToolName set and arguments are
// decoded into one typed struct per tool, rejecting unknown fields. Every
// failure is rendered as a JSON error payload, so a single bad request never
// breaks the MCP session:
//
//	{"error": "Error in ga4_top_pages: invalid argument limit: must be positive"}
//	{"error": "Unknown tool: delete_site"}
//	{"error": "Error reading resource analytics://dashboard/decade: Unknown resource: ..."}
//
// The upstream clients are built on first use through a HandleProvider.
// Successful payloads may be stored in a cache.Cache.
package dispatch
