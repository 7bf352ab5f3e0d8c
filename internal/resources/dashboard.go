package resources

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/unified-analytics/internal/dispatch"
	"github.com/teemow/unified-analytics/internal/server"
	"github.com/teemow/unified-analytics/internal/tools/common"
)

const mimeJSON = "application/json"

type periodInfo struct {
	title       string
	description string
}

var periodInfos = map[dispatch.Period]periodInfo{
	dispatch.PeriodToday:     {"Today's Analytics Dashboard", "Combined GSC + GA4 data for today"},
	dispatch.PeriodYesterday: {"Yesterday's Analytics Dashboard", "Complete analytics overview for yesterday"},
	dispatch.PeriodWeek:      {"Weekly Analytics Dashboard", "7-day performance summary"},
	dispatch.PeriodMonth:     {"Monthly Analytics Dashboard", "30-day performance summary"},
}

// Dashboards returns the static dashboard resources: the short form of every
// period for the default site, then every period for every site.
func Dashboards(sites []string) []mcp.Resource {
	resources := make([]mcp.Resource, 0, len(dispatch.Periods)*(len(sites)+1))

	for _, p := range dispatch.Periods {
		info := periodInfos[p]
		resources = append(resources, mcp.NewResource(
			dispatch.DashboardURI(p, ""),
			info.title,
			mcp.WithResourceDescription(info.description+" (default site)"),
			mcp.WithMIMEType(mimeJSON),
		))
	}

	for _, site := range sites {
		for _, p := range dispatch.Periods {
			info := periodInfos[p]
			resources = append(resources, mcp.NewResource(
				dispatch.DashboardURI(p, site),
				fmt.Sprintf("%s (%s)", info.title, site),
				mcp.WithResourceDescription(fmt.Sprintf("%s for %s", info.description, site)),
				mcp.WithMIMEType(mimeJSON),
			))
		}
	}

	return resources
}

// DashboardTemplate returns the analytics://dashboard/{period}/{site} template.
func DashboardTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		dispatch.DashboardTemplate,
		"Analytics Dashboard",
		mcp.WithTemplateDescription("Combined GSC + GA4 performance for a period (today, yesterday, week, month) and a configured site"),
		mcp.WithTemplateMIMEType(mimeJSON),
	)
}

// RegisterDashboardResources registers the static dashboards and the
// dashboard template with the MCP server.
func RegisterDashboardResources(s *mcpserver.MCPServer, sc *server.ServerContext) {
	handler := common.InstrumentedResourceHandler(sc, func(ctx context.Context, request mcp.ReadResourceRequest) dispatch.Result {
		return sc.Dispatcher().Read(ctx, request.Params.URI)
	})

	for _, r := range Dashboards(sc.Sites().Keys()) {
		s.AddResource(r, handler)
	}
	s.AddResourceTemplate(DashboardTemplate(), mcpserver.ResourceTemplateHandlerFunc(handler))
}
