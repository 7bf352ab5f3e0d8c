package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/unified-analytics/internal/cache"
	"github.com/teemow/unified-analytics/internal/instrumentation"
	"github.com/teemow/unified-analytics/internal/logging"
	"github.com/teemow/unified-analytics/internal/resources"
	"github.com/teemow/unified-analytics/internal/server"
	"github.com/teemow/unified-analytics/internal/tools/analytics_tools"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"

	serverName      = "unified-analytics"
	shutdownTimeout = 10 * time.Second
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// CacheConfig holds the report cache settings.
type CacheConfig struct {
	// URL is a redis:// URL. Empty disables caching.
	URL string
	TTL time.Duration
}

type serveOptions struct {
	transport string
	httpAddr  string
	metrics   MetricsConfig
	cache     CacheConfig
}

func newServeCmd() *cobra.Command {
	var (
		transport      string
		httpAddr       string
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing Google Search Console
and Google Analytics 4 reports for the configured sites.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport at /mcp, with /healthz and /readyz

Credentials:
  A Google service account key file with read access to the Search Console
  properties and the GA4 properties:
    --credentials /path/to/key.json OR ANALYTICS_CREDENTIALS_PATH env var

Sites:
  --sites-file sites.yaml OR ANALYTICS_SITES_FILE env var, or
  ANALYTICS_SITES=a,b with GSC_SITE_URL_<KEY> and GA4_PROPERTY_ID_<KEY>, or
  a single site from GSC_SITE_URL and GA4_PROPERTY_ID.

The Google API clients are built at startup. A failure exits nonzero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}

			ttl, err := durationFlagOrEnv(cmd, "cache-ttl", envCacheTTL)
			if err != nil {
				return err
			}

			opts := serveOptions{
				transport: transport,
				httpAddr:  httpAddr,
				metrics: MetricsConfig{
					Enabled: boolFlagOrEnv(cmd, "metrics-enabled", envMetricsEnabled),
					Addr:    stringFlagOrEnv(cmd, "metrics-addr", envMetricsAddr),
				},
				cache: CacheConfig{
					URL: stringFlagOrEnv(cmd, "cache-url", envCacheURL),
					TTL: ttl,
				},
			}
			return runServe(rt, opts)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")

	// Metrics server flags
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port (streamable-http only). Can also use "+envMetricsEnabled+" env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use "+envMetricsAddr+" env var.")

	addCacheFlags(cmd)

	return cmd
}

func addCacheFlags(cmd *cobra.Command) {
	cmd.Flags().String("cache-url", "", "Redis URL for the report cache (e.g. redis://localhost:6379/0). Empty disables caching. Can also use "+envCacheURL+" env var.")
	cmd.Flags().Duration("cache-ttl", cache.DefaultTTL, "Report cache TTL. Can also use "+envCacheTTL+" env var.")
}

// openCache connects to the report cache. An unreachable cache is logged and
// replaced by the no-op cache.
func openCache(ctx context.Context, cfg CacheConfig, logger *slog.Logger) cache.Cache {
	if cfg.URL == "" {
		return cache.Noop{}
	}
	c, err := cache.NewRedis(ctx, cfg.URL, cfg.TTL)
	if err != nil {
		logger.Warn("report cache unavailable, continuing without cache",
			slog.String("url", logging.RedactURL(cfg.URL)), logging.Err(err))
		return cache.Noop{}
	}
	logger.Info("report cache enabled", slog.String("url", logging.RedactURL(cfg.URL)), slog.Duration("ttl", c.TTL()))
	return c
}

func runServe(rt *runtimeEnv, opts serveOptions) error {
	if opts.transport != transportStdio && opts.transport != transportStreamableHTTP {
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.transport)
	}

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := rt.logger

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	if opts.transport != transportStdio && opts.metrics.Enabled && provider.Enabled() && provider.HasPrometheusExporter() {
		metricsServer, err := startMetricsServer(opts.metrics, provider, logger)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	serverOpts := []server.Option{
		server.WithLogger(logger),
		server.WithCache(openCache(shutdownCtx, opts.cache, logger)),
	}
	if provider.Enabled() {
		serverOpts = append(serverOpts,
			server.WithMetrics(provider.Metrics()),
			server.WithAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging)),
		)
	}

	factory := server.NewGoogleClientFactory(rt.loader, provider.Metrics())
	serverContext := server.NewServerContext(shutdownCtx, rt.sites, factory, serverOpts...)
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	// Build the Google clients now so a bad credential fails fast.
	if _, err := serverContext.Services().Ensure(shutdownCtx); err != nil {
		return err
	}
	logger.Info("serving sites", slog.Any("sites", rt.sites.Keys()), slog.String("default", rt.sites.Default().Key))

	mcpSrv := newMCPServer(serverContext)

	switch opts.transport {
	case transportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, opts.httpAddr)
	default:
		return runStdioServer(shutdownCtx, mcpSrv, logger)
	}
}

// newMCPServer creates the MCP server with every tool and resource registered.
func newMCPServer(sc *server.ServerContext) *mcpserver.MCPServer {
	metrics := sc.Metrics()

	hooks := &mcpserver.Hooks{}
	hooks.AddOnRegisterSession(func(ctx context.Context, _ mcpserver.ClientSession) {
		metrics.IncrementActiveSessions(ctx)
	})
	hooks.AddOnUnregisterSession(func(ctx context.Context, _ mcpserver.ClientSession) {
		metrics.DecrementActiveSessions(ctx)
	})

	mcpSrv := mcpserver.NewMCPServer(serverName, version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
		mcpserver.WithHooks(hooks),
		mcpserver.WithRecovery(),
	)

	analytics_tools.RegisterAnalyticsTools(mcpSrv, sc)
	resources.RegisterDashboardResources(mcpSrv, sc)

	return mcpSrv
}

func startMetricsServer(cfg MetricsConfig, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    cfg.Addr,
		Enabled:                 true,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	// Wait for metrics server to be ready or fail
	select {
	case <-metricsReady:
		logger.Info("metrics server started", slog.String("addr", metricsServer.Addr()))
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, errors.New("metrics server startup timed out")
	}
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, logger *slog.Logger) error {
	stdio := mcpserver.NewStdioServer(mcpSrv)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, addr string) error {
	httpServer := server.NewHTTPServer(mcpSrv, sc, addr)

	ready := make(chan struct{})
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.StartWithReadySignal(ready); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ready:
		sc.Logger().Info("MCP HTTP server listening", slog.String("addr", httpServer.Addr()))
	case err := <-serverDone:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	}

	select {
	case <-ctx.Done():
		sc.Logger().Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		return nil
	}
}
