package server

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/teemow/unified-analytics/internal/cache"
	"github.com/teemow/unified-analytics/internal/config"
	"github.com/teemow/unified-analytics/internal/dispatch"
	"github.com/teemow/unified-analytics/internal/instrumentation"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	sites       *config.Registry
	services    *Services
	dispatcher  *dispatch.Dispatcher
	cache       cache.Cache
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	logger      *slog.Logger
	mu          sync.RWMutex
	shutdown    bool
}

// Option configures a ServerContext.
type Option func(*serverOptions)

type serverOptions struct {
	cache       cache.Cache
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	logger      *slog.Logger
	clock       func() time.Time
}

// WithCache sets the report cache. The cache is closed on Shutdown when it
// implements io.Closer.
func WithCache(c cache.Cache) Option {
	return func(o *serverOptions) { o.cache = c }
}

func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *serverOptions) { o.metrics = m }
}

func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(o *serverOptions) { o.auditLogger = al }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *serverOptions) { o.logger = l }
}

// WithClock overrides the clock used for dashboard periods.
func WithClock(now func() time.Time) Option {
	return func(o *serverOptions) { o.clock = now }
}

// NewServerContext creates a new server context. The upstream clients are
// not built until the first report is requested or Services().Ensure is
// called.
func NewServerContext(ctx context.Context, sites *config.Registry, factory ClientFactory, opts ...Option) *ServerContext {
	o := serverOptions{
		cache:  cache.Noop{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cache == nil {
		o.cache = cache.Noop{}
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	services := NewServices(shutdownCtx, factory, o.logger)

	dispatcherOpts := []dispatch.Option{
		dispatch.WithCache(o.cache),
		dispatch.WithMetrics(o.metrics),
		dispatch.WithLogger(o.logger),
	}
	if o.clock != nil {
		dispatcherOpts = append(dispatcherOpts, dispatch.WithClock(o.clock))
	}

	return &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		sites:       sites,
		services:    services,
		dispatcher:  dispatch.New(sites, services, dispatcherOpts...),
		cache:       o.cache,
		metrics:     o.metrics,
		auditLogger: o.auditLogger,
		logger:      o.logger,
	}
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

func (sc *ServerContext) Sites() *config.Registry {
	return sc.sites
}

func (sc *ServerContext) Services() *Services {
	return sc.services
}

func (sc *ServerContext) Dispatcher() *dispatch.Dispatcher {
	return sc.dispatcher
}

func (sc *ServerContext) Cache() cache.Cache {
	return sc.cache
}

// Metrics returns the metrics recorder. It may be nil; Metrics methods are
// nil-safe.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil when auditing is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.auditLogger
}

func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context and closes the report cache.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()

	if closer, ok := sc.cache.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
