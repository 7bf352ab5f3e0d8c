package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"google.golang.org/api/option"

	"github.com/teemow/unified-analytics/internal/analytics"
	"github.com/teemow/unified-analytics/internal/ga4"
	"github.com/teemow/unified-analytics/internal/google"
	"github.com/teemow/unified-analytics/internal/instrumentation"
	"github.com/teemow/unified-analytics/internal/searchconsole"
)

// ClientFactory builds the upstream clients. ctx outlives the request that
// triggered the build, so token refreshes keep working afterwards.
type ClientFactory func(ctx context.Context) (analytics.Handles, error)

// NewGoogleClientFactory returns a factory that authenticates with loader and
// builds real Search Console and GA4 clients. opts are appended to the client
// options of both services.
func NewGoogleClientFactory(loader google.CredentialLoader, metrics *instrumentation.Metrics, opts ...option.ClientOption) ClientFactory {
	return func(ctx context.Context) (analytics.Handles, error) {
		httpClient, err := loader.HTTPClient(ctx)
		if err != nil {
			return analytics.Handles{}, err
		}

		clientOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)

		gsc, err := searchconsole.NewClient(ctx, metrics, clientOpts...)
		if err != nil {
			return analytics.Handles{}, err
		}
		ga, err := ga4.NewClient(ctx, metrics, clientOpts...)
		if err != nil {
			return analytics.Handles{}, err
		}

		return analytics.Handles{GSC: gsc, GA4: ga}, nil
	}
}

// Services holds the shared upstream clients. They are built once, on the
// first successful Ensure, and read-only afterwards.
type Services struct {
	ctx     context.Context
	factory ClientFactory
	logger  *slog.Logger

	mu      sync.Mutex
	handles analytics.Handles
	ready   bool
}

// NewServices creates an uninitialized Services. ctx bounds the lifetime of
// the clients.
func NewServices(ctx context.Context, factory ClientFactory, logger *slog.Logger) *Services {
	if logger == nil {
		logger = slog.Default()
	}
	return &Services{
		ctx:     ctx,
		factory: factory,
		logger:  logger,
	}
}

// Ensure returns the clients, building them if needed. Concurrent first calls
// build them once. Failures are not cached.
func (s *Services) Ensure(ctx context.Context) (analytics.Handles, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return s.handles, nil
	}
	if err := ctx.Err(); err != nil {
		return analytics.Handles{}, &analytics.InitializationError{Err: err}
	}
	if s.factory == nil {
		return analytics.Handles{}, &analytics.InitializationError{Err: fmt.Errorf("no client factory configured")}
	}

	handles, err := s.factory(s.ctx)
	if err != nil {
		s.logger.Error("failed to initialize Google API clients", "error", err)
		return analytics.Handles{}, &analytics.InitializationError{Err: err}
	}

	s.handles = handles
	s.ready = true
	s.logger.Info("Google API clients initialized")
	return handles, nil
}

// Ready reports whether the clients have been built.
func (s *Services) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}
