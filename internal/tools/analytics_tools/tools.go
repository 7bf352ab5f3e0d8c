package analytics_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/unified-analytics/internal/analytics"
	"github.com/teemow/unified-analytics/internal/config"
	"github.com/teemow/unified-analytics/internal/dispatch"
	"github.com/teemow/unified-analytics/internal/server"
	"github.com/teemow/unified-analytics/internal/tools/common"
)

// Tools returns the definitions of every analytics tool, in registration
// order. The site parameter enumerates the keys in sites.
func Tools(sites *config.Registry) []mcp.Tool {
	with := func(opts ...mcp.ToolOption) []mcp.ToolOption {
		all := append([]mcp.ToolOption{common.SiteParam(sites)}, common.DateRangeParams()...)
		return append(all, opts...)
	}

	return []mcp.Tool{
		// Search Console
		mcp.NewTool(string(dispatch.ToolSearchAnalytics), with(
			mcp.WithDescription("Get Google Search Console search analytics data"),
			mcp.WithArray("dimensions",
				mcp.Description("Dimensions to group by (query, page, country, device, searchAppearance)"),
				mcp.WithStringItems(),
			),
			mcp.WithNumber("row_limit",
				mcp.Description("Maximum rows (default 1000)"),
				mcp.DefaultNumber(analytics.DefaultRowLimit),
			),
		)...),
		mcp.NewTool(string(dispatch.ToolTopQueries), with(
			mcp.WithDescription("Get top performing search queries from GSC"),
			mcp.WithNumber("limit",
				mcp.Description("Number of queries (default 50)"),
				mcp.DefaultNumber(analytics.DefaultTopQueriesLimit),
			),
		)...),

		// GA4
		mcp.NewTool(string(dispatch.ToolTrafficOverview), with(
			mcp.WithDescription("Get GA4 traffic overview with key metrics"),
		)...),
		mcp.NewTool(string(dispatch.ToolTopPages), with(
			mcp.WithDescription("Get top performing pages from GA4"),
			mcp.WithString("metric",
				mcp.Description("Metric to sort by"),
				mcp.Enum(analytics.TopPagesMetrics...),
				mcp.DefaultString(analytics.DefaultTopPagesMetric),
			),
			mcp.WithNumber("limit",
				mcp.Description("Number of pages"),
				mcp.DefaultNumber(analytics.DefaultTopPagesLimit),
			),
		)...),
		mcp.NewTool(string(dispatch.ToolAcquisition), with(
			mcp.WithDescription("Get GA4 traffic acquisition data by source/medium"),
			mcp.WithNumber("limit",
				mcp.Description("Number of sources"),
				mcp.DefaultNumber(analytics.DefaultAcquisitionLimit),
			),
		)...),

		// Combined
		mcp.NewTool(string(dispatch.ToolCombinedPerformance), with(
			mcp.WithDescription("Combined GSC + GA4 performance analysis for a date range"),
		)...),
		mcp.NewTool(string(dispatch.ToolPageAnalysis), with(
			mcp.WithDescription("Analyze specific page performance across GSC and GA4"),
			mcp.WithString("page_path",
				mcp.Required(),
				mcp.Description("Page path to analyze (e.g., '/blog/article')"),
			),
		)...),
	}
}

// RegisterAnalyticsTools registers all analytics tools with the MCP server.
func RegisterAnalyticsTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	for _, tool := range Tools(sc.Sites()) {
		s.AddTool(tool, common.InstrumentedToolHandler(tool.Name, sc, dispatchTo(sc, tool.Name)))
	}
}

func dispatchTo(sc *server.ServerContext, name string) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) dispatch.Result {
		return sc.Dispatcher().Call(ctx, name, request.GetArguments())
	}
}
