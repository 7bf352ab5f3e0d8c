package analytics

import (
	"github.com/teemow/unified-analytics/internal/ga4"
	"github.com/teemow/unified-analytics/internal/searchconsole"
)

// Source labels of the report envelopes.
const (
	SourceSearchConsole = "Google Search Console"
	SourceAnalytics     = "Google Analytics 4"

	CombinedReportType = "Combined Performance Report"
)

// DateRange is an inclusive pair of ISO 8601 dates. Dates are passed to the
// APIs verbatim.
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// String renders the range as used in report envelopes.
func (d DateRange) String() string {
	return d.StartDate + " to " + d.EndDate
}

// SearchConsoleReport is the envelope of a search analytics query.
type SearchConsoleReport struct {
	Source     string              `json:"source"`
	Site       string              `json:"site"`
	SiteURL    string              `json:"site_url"`
	DateRange  string              `json:"date_range"`
	Dimensions []string            `json:"dimensions"`
	RowCount   int                 `json:"row_count"`
	Data       []searchconsole.Row `json:"data"`
}

// AnalyticsHeader holds the envelope fields shared by all GA4 reports.
type AnalyticsHeader struct {
	Source     string   `json:"source"`
	Site       string   `json:"site"`
	PropertyID string   `json:"property_id"`
	DateRange  string   `json:"date_range"`
	Dimensions []string `json:"dimensions"`
	Metrics    []string `json:"metrics"`
	RowCount   int      `json:"row_count"`
}

// AnalyticsReport is the envelope of a GA4 report.
type AnalyticsReport struct {
	AnalyticsHeader
	Data []ga4.Row `json:"data"`
}

// TrafficOverviewReport carries the single overview row instead of data.
// Overview is absent when GA4 returned no rows.
type TrafficOverviewReport struct {
	AnalyticsHeader
	Overview ga4.Row `json:"overview,omitempty"`
}

// CombinedReport is the cross-provider summary used by the dashboards.
type CombinedReport struct {
	ReportType      string                  `json:"report_type"`
	Site            string                  `json:"site"`
	DateRange       string                  `json:"date_range"`
	SearchConsole   CombinedSearchConsole   `json:"search_console"`
	GoogleAnalytics CombinedGoogleAnalytics `json:"google_analytics"`
}

type CombinedSearchConsole struct {
	TopQueries []searchconsole.Row `json:"top_queries"`
}

type CombinedGoogleAnalytics struct {
	// Overview is {} when GA4 returned no overview row.
	Overview   ga4.Row   `json:"overview"`
	TopPages   []ga4.Row `json:"top_pages"`
	TopSources []ga4.Row `json:"top_sources"`
}

// PageAnalysisReport joins Search Console queries and GA4 metrics for one page.
type PageAnalysisReport struct {
	PagePath        string              `json:"page_path"`
	Site            string              `json:"site"`
	DateRange       string              `json:"date_range"`
	SearchConsole   PageSearchConsole   `json:"search_console"`
	GoogleAnalytics PageGoogleAnalytics `json:"google_analytics"`
}

type PageSearchConsole struct {
	QueriesCount int                 `json:"queries_count"`
	TopQueries   []searchconsole.Row `json:"top_queries"`
}

type PageGoogleAnalytics struct {
	// PageData is the first GA4 row for the page, or null.
	PageData *ga4.Row `json:"page_data"`
}
