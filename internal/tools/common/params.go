package common

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/unified-analytics/internal/config"
)

// SiteParam returns the optional "site" parameter. Its schema enumerates the
// configured site keys and names the default.
func SiteParam(sites *config.Registry) mcp.ToolOption {
	keys := sites.Keys()
	return mcp.WithString("site",
		mcp.Description(fmt.Sprintf("Site to query (%s). Defaults to %q.", strings.Join(keys, ", "), sites.Default().Key)),
		mcp.Enum(keys...),
	)
}

// DateRangeParams returns the required start_date and end_date parameters.
func DateRangeParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("start_date",
			mcp.Required(),
			mcp.Description("Start date in YYYY-MM-DD format"),
		),
		mcp.WithString("end_date",
			mcp.Required(),
			mcp.Description("End date in YYYY-MM-DD format"),
		),
	}
}
