// Package analytics builds the reports served by the MCP tools and resources.
//
// A Reporter resolves a site key through the config.Registry, issues one or
// more upstream queries through the Search Console and GA4 clients, and
// shapes the rows into JSON envelopes. The upstream clients are reached
// through small interfaces so the composers can be exercised against
// in-memory fakes.
//
// Report kinds:
//   - SearchAnalytics and TopQueries (Search Console)
//   - RunReport, TrafficOverview, TopPages and Acquisition (GA4)
//   - CombinedPerformance, which fans out to four queries concurrently
//   - PageAnalysis, which joins both providers on one page path
//
// All errors are typed. Upstream failures are UpstreamError, unknown site
// keys are config.UnknownSiteError, and bad inputs are InvalidArgumentError.
package analytics
