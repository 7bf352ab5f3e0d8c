package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teemow/unified-analytics/internal/analytics"
	"github.com/teemow/unified-analytics/internal/config"
	"github.com/teemow/unified-analytics/internal/ga4"
	"github.com/teemow/unified-analytics/internal/searchconsole"
)

type stubGSC struct {
	mu      sync.Mutex
	queries []searchconsole.Query
	rows    []searchconsole.Row
}

func (s *stubGSC) QuerySearchAnalytics(_ context.Context, _ string, q searchconsole.Query) ([]searchconsole.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	return s.rows, nil
}

func (s *stubGSC) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

type stubGA4 struct {
	mu       sync.Mutex
	requests []ga4.ReportRequest
	rows     []ga4.Row
	err      error
}

func (s *stubGA4) RunReport(_ context.Context, _ string, req ga4.ReportRequest) ([]ga4.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.rows, s.err
}

type stubHandles struct {
	mu      sync.Mutex
	ensures int
	handles analytics.Handles
	err     error
}

func (s *stubHandles) Ensure(context.Context) (analytics.Handles, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensures++
	if s.err != nil {
		return analytics.Handles{}, &analytics.InitializationError{Err: s.err}
	}
	return s.handles, nil
}

// memCache is an in-memory cache.Cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

var errCacheDown = errors.New("connection refused")

func testRegistry(t *testing.T) *config.Registry {
	t.Helper()
	r, err := config.NewRegistry([]config.SiteConfig{
		{Key: "vesivanov", GSCURL: "https://vesivanov.com/", GA4PropertyID: "111"},
		{Key: "mebelcenter", GSCURL: "sc-domain:mebelcenter.bg", GA4PropertyID: "222"},
	})
	require.NoError(t, err)
	return r
}

type fixture struct {
	gsc     *stubGSC
	ga4     *stubGA4
	handles *stubHandles
}

func newFixture() *fixture {
	gsc := &stubGSC{rows: []searchconsole.Row{{Keys: []string{"chairs"}, Clicks: 3}}}
	ga := &stubGA4{rows: []ga4.Row{{{Name: "sessions", Value: "10"}}}}
	return &fixture{
		gsc:     gsc,
		ga4:     ga,
		handles: &stubHandles{handles: analytics.Handles{GSC: gsc, GA4: ga}},
	}
}
