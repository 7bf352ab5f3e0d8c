package dispatch

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/teemow/unified-analytics/internal/analytics"
)

// ToolName is one of the tools the server exposes.
type ToolName string

const (
	ToolSearchAnalytics     ToolName = "gsc_search_analytics"
	ToolTopQueries          ToolName = "gsc_top_queries"
	ToolTrafficOverview     ToolName = "ga4_traffic_overview"
	ToolTopPages            ToolName = "ga4_top_pages"
	ToolAcquisition         ToolName = "ga4_acquisition_report"
	ToolCombinedPerformance ToolName = "combined_performance_report"
	ToolPageAnalysis        ToolName = "page_analysis"
)

// AllTools lists every tool in registration order.
var AllTools = []ToolName{
	ToolSearchAnalytics,
	ToolTopQueries,
	ToolTrafficOverview,
	ToolTopPages,
	ToolAcquisition,
	ToolCombinedPerformance,
	ToolPageAnalysis,
}

// ToolNames returns AllTools as strings.
func ToolNames() []string {
	names := make([]string, len(AllTools))
	for i, t := range AllTools {
		names[i] = string(t)
	}
	return names
}

// ParseToolName returns the ToolName for name or an UnknownToolError.
func ParseToolName(name string) (ToolName, error) {
	for _, t := range AllTools {
		if string(t) == name {
			return t, nil
		}
	}
	return "", &analytics.UnknownToolError{Name: name}
}

// request is implemented by every typed tool argument struct.
type request interface {
	site() string
	setSite(key string)
	// normalize validates the arguments and fills in defaults.
	normalize() error
}

// DateRangeArgs are the arguments shared by every tool. They are also the
// full argument set of ga4_traffic_overview and combined_performance_report.
type DateRangeArgs struct {
	Site      string `json:"site,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (a *DateRangeArgs) site() string { return a.Site }

func (a *DateRangeArgs) setSite(key string) { a.Site = key }

func (a *DateRangeArgs) normalize() error {
	if strings.TrimSpace(a.StartDate) == "" {
		return &analytics.InvalidArgumentError{Field: "start_date", Reason: "is required"}
	}
	if strings.TrimSpace(a.EndDate) == "" {
		return &analytics.InvalidArgumentError{Field: "end_date", Reason: "is required"}
	}
	return nil
}

// Range returns the requested date range.
func (a *DateRangeArgs) Range() analytics.DateRange {
	return analytics.DateRange{StartDate: a.StartDate, EndDate: a.EndDate}
}

// SearchAnalyticsArgs are the arguments of gsc_search_analytics.
type SearchAnalyticsArgs struct {
	DateRangeArgs
	Dimensions []string `json:"dimensions,omitempty"`
	RowLimit   *int64   `json:"row_limit,omitempty"`
}

func (a *SearchAnalyticsArgs) normalize() error {
	if err := a.DateRangeArgs.normalize(); err != nil {
		return err
	}
	for _, d := range a.Dimensions {
		if strings.TrimSpace(d) == "" {
			return &analytics.InvalidArgumentError{Field: "dimensions", Reason: "must not contain empty values"}
		}
	}
	return positiveOrDefault("row_limit", &a.RowLimit, analytics.DefaultRowLimit)
}

// TopQueriesArgs are the arguments of gsc_top_queries.
type TopQueriesArgs struct {
	DateRangeArgs
	Limit *int64 `json:"limit,omitempty"`
}

func (a *TopQueriesArgs) normalize() error {
	if err := a.DateRangeArgs.normalize(); err != nil {
		return err
	}
	return positiveOrDefault("limit", &a.Limit, analytics.DefaultTopQueriesLimit)
}

// TopPagesArgs are the arguments of ga4_top_pages.
type TopPagesArgs struct {
	DateRangeArgs
	Metric string `json:"metric,omitempty"`
	Limit  *int64 `json:"limit,omitempty"`
}

func (a *TopPagesArgs) normalize() error {
	if err := a.DateRangeArgs.normalize(); err != nil {
		return err
	}
	if a.Metric == "" {
		a.Metric = analytics.DefaultTopPagesMetric
	}
	if !analytics.ValidTopPagesMetric(a.Metric) {
		return &analytics.InvalidArgumentError{Field: "metric", Reason: "must be one of " + strings.Join(analytics.TopPagesMetrics, ", ")}
	}
	return positiveOrDefault("limit", &a.Limit, analytics.DefaultTopPagesLimit)
}

// AcquisitionArgs are the arguments of ga4_acquisition_report.
type AcquisitionArgs struct {
	DateRangeArgs
	Limit *int64 `json:"limit,omitempty"`
}

func (a *AcquisitionArgs) normalize() error {
	if err := a.DateRangeArgs.normalize(); err != nil {
		return err
	}
	return positiveOrDefault("limit", &a.Limit, analytics.DefaultAcquisitionLimit)
}

// PageAnalysisArgs are the arguments of page_analysis.
type PageAnalysisArgs struct {
	DateRangeArgs
	PagePath string `json:"page_path"`
}

func (a *PageAnalysisArgs) normalize() error {
	if a.PagePath == "" {
		return &analytics.InvalidArgumentError{Field: "page_path", Reason: "is required"}
	}
	return a.DateRangeArgs.normalize()
}

func positiveOrDefault(field string, v **int64, def int64) error {
	if *v == nil {
		*v = &def
		return nil
	}
	if **v <= 0 {
		return &analytics.InvalidArgumentError{Field: field, Reason: "must be positive"}
	}
	return nil
}

// newRequest returns the zero argument struct for tool.
func newRequest(tool ToolName) request {
	switch tool {
	case ToolSearchAnalytics:
		return &SearchAnalyticsArgs{}
	case ToolTopQueries:
		return &TopQueriesArgs{}
	case ToolTrafficOverview, ToolCombinedPerformance:
		return &DateRangeArgs{}
	case ToolTopPages:
		return &TopPagesArgs{}
	case ToolAcquisition:
		return &AcquisitionArgs{}
	case ToolPageAnalysis:
		return &PageAnalysisArgs{}
	}
	panic("dispatch: no request type for tool " + string(tool))
}

// decodeRequest decodes raw arguments into the typed request of tool and
// normalizes it. Unknown fields are rejected.
func decodeRequest(tool ToolName, args map[string]interface{}) (request, error) {
	req := newRequest(tool)

	if len(args) > 0 {
		data, err := json.Marshal(args)
		if err != nil {
			return nil, &analytics.InvalidArgumentError{Reason: err.Error()}
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			return nil, &analytics.InvalidArgumentError{Reason: err.Error()}
		}
	}

	if err := req.normalize(); err != nil {
		return nil, err
	}
	return req, nil
}
