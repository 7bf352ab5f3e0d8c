package cmd

import (
	"context"
	"testing"

	"github.com/teemow/unified-analytics/internal/analytics"
	"github.com/teemow/unified-analytics/internal/config"
	"github.com/teemow/unified-analytics/internal/ga4"
	"github.com/teemow/unified-analytics/internal/searchconsole"
)

type fakeGSC struct{ err error }

func (f fakeGSC) QuerySearchAnalytics(context.Context, string, searchconsole.Query) ([]searchconsole.Row, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []searchconsole.Row{{Keys: []string{"chairs"}, Clicks: 4}}, nil
}

type fakeGA4 struct{ err error }

func (f fakeGA4) RunReport(context.Context, string, ga4.ReportRequest) ([]ga4.Row, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []ga4.Row{{{Name: "sessions", Value: "3"}}}, nil
}

func testSites(t *testing.T) *config.Registry {
	t.Helper()
	r, err := config.NewRegistry([]config.SiteConfig{
		{Key: "vesivanov", GSCURL: "https://vesivanov.com/", GA4PropertyID: "111"},
		{Key: "mebelcenter", GSCURL: "sc-domain:mebelcenter.bg", GA4PropertyID: "222"},
	})
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	return r
}

func fakeFactory(gscErr, ga4Err error) func(context.Context) (analytics.Handles, error) {
	return func(context.Context) (analytics.Handles, error) {
		return analytics.Handles{GSC: fakeGSC{err: gscErr}, GA4: fakeGA4{err: ga4Err}}, nil
	}
}
