package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/unified-analytics/internal/analytics"
	"github.com/teemow/unified-analytics/internal/cache"
	"github.com/teemow/unified-analytics/internal/config"
	"github.com/teemow/unified-analytics/internal/instrumentation"
	"github.com/teemow/unified-analytics/internal/logging"
)

// HandleProvider yields the shared upstream clients, building them on first
// use. Failures must be *analytics.InitializationError.
type HandleProvider interface {
	Ensure(ctx context.Context) (analytics.Handles, error)
}

// Result is the outcome of a tool call or resource read.
type Result struct {
	// Text is the pretty-printed JSON payload, either a report or {"error": ...}.
	Text    string
	IsError bool
	// Site is the resolved site key, empty when resolution failed.
	Site     string
	CacheHit bool
	// Err is the underlying error when IsError is set.
	Err error
}

// Dispatcher routes tool calls and resource reads to the report composers.
type Dispatcher struct {
	sites   *config.Registry
	handles HandleProvider
	cache   cache.Cache
	metrics *instrumentation.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithCache stores successful payloads in c.
func WithCache(c cache.Cache) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.cache = c
		}
	}
}

// WithMetrics records cache lookups to m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClock replaces time.Now for resolving dashboard periods.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// New creates a Dispatcher.
func New(sites *config.Registry, handles HandleProvider, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sites:   sites,
		handles: handles,
		cache:   cache.Noop{},
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Sites returns the site registry.
func (d *Dispatcher) Sites() *config.Registry {
	return d.sites
}

// CallTool runs tool name with the raw MCP arguments and returns the payload
// text and whether it is an error payload.
func (d *Dispatcher) CallTool(ctx context.Context, name string, args map[string]interface{}) (string, bool) {
	res := d.Call(ctx, name, args)
	return res.Text, res.IsError
}

// Call is CallTool with the full Result.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]interface{}) Result {
	tool, err := ParseToolName(name)
	if err != nil {
		return errorResult(err.Error(), err)
	}

	res, err := d.callTool(ctx, tool, args)
	if err != nil {
		res.IsError = true
		res.Err = err
		res.Text = errorPayload(fmt.Sprintf("Error in %s: %v", tool, err))
		logging.WithTool(d.logger, string(tool)).Debug("tool call failed", logging.Err(err))
	}
	return res
}

func (d *Dispatcher) callTool(ctx context.Context, tool ToolName, args map[string]interface{}) (Result, error) {
	req, err := decodeRequest(tool, args)
	if err != nil {
		return Result{}, err
	}

	site, err := d.sites.Resolve(req.site())
	if err != nil {
		return Result{}, err
	}
	req.setSite(site.Key)

	return d.cached(ctx, tool, site.Key, req, func(r *analytics.Reporter) (interface{}, error) {
		return run(ctx, r, tool, site.Key, req)
	})
}

// run executes tool. The switch covers every ToolName.
func run(ctx context.Context, r *analytics.Reporter, tool ToolName, site string, req request) (interface{}, error) {
	switch tool {
	case ToolSearchAnalytics:
		a := req.(*SearchAnalyticsArgs)
		return r.SearchAnalytics(ctx, site, a.Range(), a.Dimensions, *a.RowLimit)
	case ToolTopQueries:
		a := req.(*TopQueriesArgs)
		return r.TopQueries(ctx, site, a.Range(), *a.Limit)
	case ToolTrafficOverview:
		a := req.(*DateRangeArgs)
		return r.TrafficOverview(ctx, site, a.Range())
	case ToolTopPages:
		a := req.(*TopPagesArgs)
		return r.TopPages(ctx, site, a.Range(), a.Metric, *a.Limit)
	case ToolAcquisition:
		a := req.(*AcquisitionArgs)
		return r.Acquisition(ctx, site, a.Range(), *a.Limit)
	case ToolCombinedPerformance:
		a := req.(*DateRangeArgs)
		return r.CombinedPerformance(ctx, site, a.Range())
	case ToolPageAnalysis:
		a := req.(*PageAnalysisArgs)
		return r.PageAnalysis(ctx, site, a.PagePath, a.Range())
	}
	return nil, &analytics.UnknownToolError{Name: string(tool)}
}

// cached serves the payload for (tool, site, args) from the cache, or builds
// it with fn and stores it. Cache failures are logged and treated as misses.
func (d *Dispatcher) cached(ctx context.Context, tool ToolName, site string, args interface{}, fn func(*analytics.Reporter) (interface{}, error)) (Result, error) {
	res := Result{Site: site}
	span := trace.SpanFromContext(ctx)

	key, keyErr := cache.Key(string(tool), site, args)
	if keyErr == nil {
		data, ok, err := d.cache.Get(ctx, key)
		switch {
		case err != nil:
			d.metrics.RecordCacheLookup(ctx, string(tool), instrumentation.CacheError)
			d.logger.Warn("report cache lookup failed", logging.Tool(string(tool)), logging.Err(err))
		case ok:
			d.metrics.RecordCacheLookup(ctx, string(tool), instrumentation.CacheHit)
			span.SetAttributes(instrumentation.CacheHitAttribute(true))
			res.Text = string(data)
			res.CacheHit = true
			return res, nil
		default:
			d.metrics.RecordCacheLookup(ctx, string(tool), instrumentation.CacheMiss)
		}
	}
	span.SetAttributes(instrumentation.CacheHitAttribute(false))

	handles, err := d.handles.Ensure(ctx)
	if err != nil {
		return res, err
	}

	report, err := fn(analytics.NewReporter(d.sites, handles))
	if err != nil {
		return res, err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return res, fmt.Errorf("failed to encode report: %w", err)
	}
	res.Text = string(data)

	if keyErr == nil {
		if err := d.cache.Set(ctx, key, data); err != nil {
			d.logger.Warn("report cache store failed", logging.Tool(string(tool)), logging.Err(err))
		}
	}
	return res, nil
}

func errorResult(msg string, err error) Result {
	return Result{Text: errorPayload(msg), IsError: true, Err: err}
}

func errorPayload(msg string) string {
	data, err := json.MarshalIndent(map[string]string{"error": msg}, "", "  ")
	if err != nil {
		return `{"error": "internal error"}`
	}
	return string(data)
}
