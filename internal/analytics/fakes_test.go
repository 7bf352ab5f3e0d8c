package analytics

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teemow/unified-analytics/internal/config"
	"github.com/teemow/unified-analytics/internal/ga4"
	"github.com/teemow/unified-analytics/internal/searchconsole"
)

type gscCall struct {
	SiteURL string
	Query   searchconsole.Query
}

// fakeGSC returns rows keyed by the joined dimension list.
type fakeGSC struct {
	mu    sync.Mutex
	calls []gscCall
	rows  map[string][]searchconsole.Row
	err   error
}

func (f *fakeGSC) QuerySearchAnalytics(_ context.Context, siteURL string, q searchconsole.Query) ([]searchconsole.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, gscCall{SiteURL: siteURL, Query: q})
	if f.err != nil {
		return nil, f.err
	}
	rows := f.rows[strings.Join(q.Dimensions, ",")]
	if int64(len(rows)) > q.RowLimit {
		rows = rows[:q.RowLimit]
	}
	return rows, nil
}

type ga4Call struct {
	PropertyID string
	Request    ga4.ReportRequest
}

// fakeGA4 returns rows keyed by the joined dimension list.
type fakeGA4 struct {
	mu    sync.Mutex
	calls []ga4Call
	rows  map[string][]ga4.Row
	err   error
}

func (f *fakeGA4) RunReport(_ context.Context, propertyID string, req ga4.ReportRequest) ([]ga4.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ga4Call{PropertyID: propertyID, Request: req})
	if f.err != nil {
		return nil, f.err
	}
	rows := f.rows[strings.Join(req.Dimensions, ",")]
	if int64(len(rows)) > req.Limit {
		rows = rows[:req.Limit]
	}
	return rows, nil
}

func testRegistry(t *testing.T) *config.Registry {
	t.Helper()
	r, err := config.NewRegistry([]config.SiteConfig{
		{Key: "vesivanov", GSCURL: "https://vesivanov.com/", GA4PropertyID: "111"},
		{Key: "mebelcenter", GSCURL: "sc-domain:mebelcenter.bg", GA4PropertyID: "222"},
	})
	require.NoError(t, err)
	return r
}

func gscRows(n int, keyFn func(i int) []string) []searchconsole.Row {
	rows := make([]searchconsole.Row, n)
	for i := range rows {
		rows[i] = searchconsole.Row{Keys: keyFn(i), Clicks: float64(n - i), Impressions: float64(10 * (n - i))}
	}
	return rows
}

func ga4Rows(n int, fields func(i int) ga4.Row) []ga4.Row {
	rows := make([]ga4.Row, n)
	for i := range rows {
		rows[i] = fields(i)
	}
	return rows
}

var testRange = DateRange{StartDate: "2024-01-01", EndDate: "2024-01-31"}

func queryKey(i int) []string { return []string{fmt.Sprintf("query %d", i)} }
