package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/teemow/unified-analytics/internal/ga4"
	"github.com/teemow/unified-analytics/internal/searchconsole"
)

const (
	trafficOverviewRowLimit = 1

	combinedQueriesRowLimit = 20
	combinedGA4RowLimit     = 10
	combinedQueriesOutput   = 10
	combinedPagesOutput     = 5
	combinedSourcesOutput   = 5

	pageAnalysisGSCRowLimit = 100
	pageAnalysisGA4RowLimit = 1000
	pageAnalysisTopQueries  = 10
)

var (
	trafficOverviewMetrics = []string{
		"sessions",
		"totalUsers",
		"newUsers",
		"screenPageViews",
		"bounceRate",
		"averageSessionDuration",
		"sessionsPerUser",
	}

	topPagesDimensions = []string{"pagePath", "pageTitle"}

	acquisitionDimensions = []string{"sessionSource", "sessionMedium"}
	acquisitionMetrics    = []string{"sessions", "totalUsers", "newUsers", "bounceRate", "averageSessionDuration"}

	pageAnalysisGSCDimensions = []string{"page", "query"}
	pageAnalysisGA4Dimensions = []string{"pagePath"}
	pageAnalysisGA4Metrics    = []string{"screenPageViews", "sessions", "totalUsers", "bounceRate", "averageSessionDuration"}
)

// TrafficOverview returns site-wide GA4 totals for the range. The single
// result row becomes Overview.
func (r *Reporter) TrafficOverview(ctx context.Context, site string, dr DateRange) (*TrafficOverviewReport, error) {
	report, err := r.RunReport(ctx, site, []string{}, trafficOverviewMetrics, dr, trafficOverviewRowLimit)
	if err != nil {
		return nil, err
	}

	overview := &TrafficOverviewReport{AnalyticsHeader: report.AnalyticsHeader}
	if len(report.Data) > 0 {
		overview.Overview = report.Data[0]
	}
	return overview, nil
}

// TopPages returns pages ordered by GA4. metric must be one of
// TopPagesMetrics; "" means DefaultTopPagesMetric.
func (r *Reporter) TopPages(ctx context.Context, site string, dr DateRange, metric string, limit int64) (*AnalyticsReport, error) {
	if metric == "" {
		metric = DefaultTopPagesMetric
	}
	if !ValidTopPagesMetric(metric) {
		return nil, &InvalidArgumentError{Field: "metric", Reason: "must be one of sessions, screenPageViews, totalUsers"}
	}
	if limit <= 0 {
		limit = DefaultTopPagesLimit
	}

	metrics := []string{metric, "sessions", "totalUsers", "bounceRate"}
	return r.RunReport(ctx, site, topPagesDimensions, metrics, dr, limit)
}

// Acquisition returns traffic by source and medium.
func (r *Reporter) Acquisition(ctx context.Context, site string, dr DateRange, limit int64) (*AnalyticsReport, error) {
	if limit <= 0 {
		limit = DefaultAcquisitionLimit
	}
	return r.RunReport(ctx, site, acquisitionDimensions, acquisitionMetrics, dr, limit)
}

// CombinedPerformance issues the four underlying queries concurrently. The
// first failure cancels the others and is returned.
func (r *Reporter) CombinedPerformance(ctx context.Context, site string, dr DateRange) (*CombinedReport, error) {
	sc, err := r.sites.Resolve(site)
	if err != nil {
		return nil, err
	}

	var (
		queries  *SearchConsoleReport
		overview *TrafficOverviewReport
		pages    *AnalyticsReport
		sources  *AnalyticsReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		queries, err = r.SearchAnalytics(gctx, sc.Key, dr, []string{"query"}, combinedQueriesRowLimit)
		return err
	})
	g.Go(func() error {
		var err error
		overview, err = r.TrafficOverview(gctx, sc.Key, dr)
		return err
	})
	g.Go(func() error {
		var err error
		pages, err = r.TopPages(gctx, sc.Key, dr, DefaultTopPagesMetric, combinedGA4RowLimit)
		return err
	})
	g.Go(func() error {
		var err error
		sources, err = r.Acquisition(gctx, sc.Key, dr, combinedGA4RowLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ov := overview.Overview
	if ov == nil {
		ov = ga4.Row{}
	}

	return &CombinedReport{
		ReportType: CombinedReportType,
		Site:       sc.Key,
		DateRange:  dr.String(),
		SearchConsole: CombinedSearchConsole{
			TopQueries: head(queries.Data, combinedQueriesOutput),
		},
		GoogleAnalytics: CombinedGoogleAnalytics{
			Overview:   ov,
			TopPages:   head(pages.Data, combinedPagesOutput),
			TopSources: head(sources.Data, combinedSourcesOutput),
		},
	}, nil
}

// PageAnalysis joins Search Console queries and GA4 metrics for pagePath.
// Both providers are matched by exact, case-sensitive equality on the page
// field. Only the first matching GA4 row is kept.
func (r *Reporter) PageAnalysis(ctx context.Context, site, pagePath string, dr DateRange) (*PageAnalysisReport, error) {
	if pagePath == "" {
		return nil, &InvalidArgumentError{Field: "page_path", Reason: "is required"}
	}

	sc, err := r.sites.Resolve(site)
	if err != nil {
		return nil, err
	}

	gscReport, err := r.SearchAnalytics(ctx, sc.Key, dr, pageAnalysisGSCDimensions, pageAnalysisGSCRowLimit)
	if err != nil {
		return nil, err
	}
	ga4Report, err := r.RunReport(ctx, sc.Key, pageAnalysisGA4Dimensions, pageAnalysisGA4Metrics, dr, pageAnalysisGA4RowLimit)
	if err != nil {
		return nil, err
	}

	queries := make([]searchconsole.Row, 0)
	for _, row := range gscReport.Data {
		if row.Key(0) == pagePath {
			queries = append(queries, row)
		}
	}

	var pageData *ga4.Row
	for i := range ga4Report.Data {
		if v, ok := ga4Report.Data[i].Get("pagePath"); ok && v == pagePath {
			pageData = &ga4Report.Data[i]
			break
		}
	}

	return &PageAnalysisReport{
		PagePath:  pagePath,
		Site:      sc.Key,
		DateRange: dr.String(),
		SearchConsole: PageSearchConsole{
			QueriesCount: len(queries),
			TopQueries:   head(queries, pageAnalysisTopQueries),
		},
		GoogleAnalytics: PageGoogleAnalytics{
			PageData: pageData,
		},
	}, nil
}

func head[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
