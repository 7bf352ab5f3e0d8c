package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teemow/unified-analytics/internal/analytics"
	"github.com/teemow/unified-analytics/internal/config"
	"github.com/teemow/unified-analytics/internal/ga4"
	"github.com/teemow/unified-analytics/internal/searchconsole"
)

type fakeGSC struct{}

func (fakeGSC) QuerySearchAnalytics(context.Context, string, searchconsole.Query) ([]searchconsole.Row, error) {
	return []searchconsole.Row{{Keys: []string{"chairs"}, Clicks: 1}}, nil
}

type fakeGA4 struct{}

func (fakeGA4) RunReport(context.Context, string, ga4.ReportRequest) ([]ga4.Row, error) {
	return []ga4.Row{{{Name: "sessions", Value: "1"}}}, nil
}

// countingFactory counts builds and fails while failing is set.
type countingFactory struct {
	builds  atomic.Int32
	failing atomic.Bool
}

func (f *countingFactory) build(context.Context) (analytics.Handles, error) {
	f.builds.Add(1)
	if f.failing.Load() {
		return analytics.Handles{}, errors.New("credentials file not found")
	}
	return analytics.Handles{GSC: fakeGSC{}, GA4: fakeGA4{}}, nil
}

func testSites(t *testing.T) *config.Registry {
	t.Helper()
	r, err := config.NewRegistry([]config.SiteConfig{
		{Key: "vesivanov", GSCURL: "https://vesivanov.com/", GA4PropertyID: "111"},
		{Key: "mebelcenter", GSCURL: "sc-domain:mebelcenter.bg", GA4PropertyID: "222"},
	})
	require.NoError(t, err)
	return r
}

type closingCache struct {
	closed  bool
	pingErr error
}

func (c *closingCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (c *closingCache) Set(context.Context, string, []byte) error         { return nil }
func (c *closingCache) Ping(context.Context) error                        { return c.pingErr }
func (c *closingCache) Close() error {
	c.closed = true
	return nil
}
