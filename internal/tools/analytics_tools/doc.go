// Package analytics_tools registers the Search Console, GA4 and combined
// reporting tools with the MCP server.
//
// Every tool takes an optional site key and a start_date/end_date range.
// Handlers delegate to the dispatcher, which returns either a report envelope
// or an error payload flagged with isError.
package analytics_tools
