package analytics

import (
	"context"

	"github.com/teemow/unified-analytics/internal/config"
	"github.com/teemow/unified-analytics/internal/ga4"
	"github.com/teemow/unified-analytics/internal/searchconsole"
)

// Defaults applied when a tool argument is omitted.
const (
	DefaultRowLimit         = 1000
	DefaultTopQueriesLimit  = 50
	DefaultTopPagesLimit    = 20
	DefaultAcquisitionLimit = 25
	DefaultTopPagesMetric   = "screenPageViews"
)

// TopPagesMetrics are the metrics ga4_top_pages can order by.
var TopPagesMetrics = []string{"sessions", "screenPageViews", "totalUsers"}

// SearchAnalyticsQuerier is implemented by *searchconsole.Client.
type SearchAnalyticsQuerier interface {
	QuerySearchAnalytics(ctx context.Context, siteURL string, q searchconsole.Query) ([]searchconsole.Row, error)
}

// ReportRunner is implemented by *ga4.Client.
type ReportRunner interface {
	RunReport(ctx context.Context, propertyID string, req ga4.ReportRequest) ([]ga4.Row, error)
}

// Handles is the pair of upstream clients shared by all requests.
type Handles struct {
	GSC SearchAnalyticsQuerier
	GA4 ReportRunner
}

// Reporter builds reports for the sites of a registry. It holds no
// per-request state and is safe for concurrent use.
type Reporter struct {
	sites *config.Registry
	gsc   SearchAnalyticsQuerier
	ga4   ReportRunner
}

// NewReporter creates a Reporter over the given registry and clients.
func NewReporter(sites *config.Registry, h Handles) *Reporter {
	return &Reporter{
		sites: sites,
		gsc:   h.GSC,
		ga4:   h.GA4,
	}
}

// SearchAnalytics queries Search Console for site. An empty dimensions list
// is sent without dimensions. A non-positive rowLimit means DefaultRowLimit.
func (r *Reporter) SearchAnalytics(ctx context.Context, site string, dr DateRange, dimensions []string, rowLimit int64) (*SearchConsoleReport, error) {
	sc, err := r.sites.Resolve(site)
	if err != nil {
		return nil, err
	}
	if rowLimit <= 0 {
		rowLimit = DefaultRowLimit
	}

	rows, err := r.gsc.QuerySearchAnalytics(ctx, sc.GSCURL, searchconsole.Query{
		StartDate:  dr.StartDate,
		EndDate:    dr.EndDate,
		Dimensions: dimensions,
		RowLimit:   rowLimit,
	})
	if err != nil {
		return nil, newUpstreamError(ProviderGSC, err)
	}
	if rows == nil {
		rows = []searchconsole.Row{}
	}

	return &SearchConsoleReport{
		Source:     SourceSearchConsole,
		Site:       sc.Key,
		SiteURL:    sc.GSCURL,
		DateRange:  dr.String(),
		Dimensions: nonNil(dimensions),
		RowCount:   len(rows),
		Data:       rows,
	}, nil
}

// TopQueries is SearchAnalytics grouped by query. A non-positive limit means
// DefaultTopQueriesLimit.
func (r *Reporter) TopQueries(ctx context.Context, site string, dr DateRange, limit int64) (*SearchConsoleReport, error) {
	if limit <= 0 {
		limit = DefaultTopQueriesLimit
	}
	return r.SearchAnalytics(ctx, site, dr, []string{"query"}, limit)
}

// RunReport runs a GA4 report for site. Rows are flattened positionally, see
// package ga4.
func (r *Reporter) RunReport(ctx context.Context, site string, dimensions, metrics []string, dr DateRange, limit int64) (*AnalyticsReport, error) {
	sc, err := r.sites.Resolve(site)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRowLimit
	}

	rows, err := r.ga4.RunReport(ctx, sc.GA4PropertyID, ga4.ReportRequest{
		Dimensions: dimensions,
		Metrics:    metrics,
		StartDate:  dr.StartDate,
		EndDate:    dr.EndDate,
		Limit:      limit,
	})
	if err != nil {
		return nil, newUpstreamError(ProviderGA4, err)
	}
	if rows == nil {
		rows = []ga4.Row{}
	}

	return &AnalyticsReport{
		AnalyticsHeader: AnalyticsHeader{
			Source:     SourceAnalytics,
			Site:       sc.Key,
			PropertyID: sc.GA4PropertyID,
			DateRange:  dr.String(),
			Dimensions: nonNil(dimensions),
			Metrics:    nonNil(metrics),
			RowCount:   len(rows),
		},
		Data: rows,
	}, nil
}

// ValidTopPagesMetric reports whether metric can order ga4_top_pages.
func ValidTopPagesMetric(metric string) bool {
	for _, m := range TopPagesMetrics {
		if m == metric {
			return true
		}
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
