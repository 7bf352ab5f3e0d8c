package searchconsole

import (
	searchconsole "google.golang.org/api/searchconsole/v1"
)

// Query is a search analytics request for one site.
type Query struct {
	StartDate string
	EndDate   string
	// Dimensions are sent in order. An empty list is omitted from the request.
	Dimensions []string
	RowLimit   int64
}

// Row is one search analytics row in its upstream shape.
type Row struct {
	Keys        []string `json:"keys,omitempty"`
	Clicks      float64  `json:"clicks"`
	Impressions float64  `json:"impressions"`
	CTR         float64  `json:"ctr"`
	Position    float64  `json:"position"`
}

// Key returns the i-th dimension value, or "" when the row has fewer keys.
func (r Row) Key(i int) string {
	if i < 0 || i >= len(r.Keys) {
		return ""
	}
	return r.Keys[i]
}

func (q Query) toRequest() *searchconsole.SearchAnalyticsQueryRequest {
	req := &searchconsole.SearchAnalyticsQueryRequest{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		RowLimit:  q.RowLimit,
	}
	if len(q.Dimensions) > 0 {
		req.Dimensions = append([]string(nil), q.Dimensions...)
	}
	return req
}

func toRow(r *searchconsole.ApiDataRow) Row {
	if r == nil {
		return Row{}
	}
	return Row{
		Keys:        r.Keys,
		Clicks:      r.Clicks,
		Impressions: r.Impressions,
		CTR:         r.Ctr,
		Position:    r.Position,
	}
}
