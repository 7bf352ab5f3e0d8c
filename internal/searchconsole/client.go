package searchconsole

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"
	searchconsole "google.golang.org/api/searchconsole/v1"

	"github.com/teemow/unified-analytics/internal/instrumentation"
	"github.com/teemow/unified-analytics/internal/logging"
)

// Client wraps the Search Console service
type Client struct {
	svc     *searchconsole.Service
	metrics *instrumentation.Metrics
}

// NewClient creates a Search Console client. Authentication is supplied through
// opts, normally option.WithHTTPClient with a service account client.
// metrics may be nil.
func NewClient(ctx context.Context, metrics *instrumentation.Metrics, opts ...option.ClientOption) (*Client, error) {
	svc, err := searchconsole.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Search Console service: %w", err)
	}

	return &Client{
		svc:     svc,
		metrics: metrics,
	}, nil
}

// QuerySearchAnalytics runs a search analytics query for siteURL. Rows are
// returned in upstream order. A response without rows yields an empty slice.
func (c *Client) QuerySearchAnalytics(ctx context.Context, siteURL string, q Query) ([]Row, error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx,
		instrumentation.ServiceSearchConsole,
		instrumentation.OperationSearchAnalyticsQuery,
		instrumentation.NewSpanAttributeBuilder().
			WithProperty(siteURL).
			WithRowLimit(q.RowLimit).
			Build()...)
	defer span.End()

	start := time.Now()
	resp, err := c.svc.Searchanalytics.Query(siteURL, q.toRequest()).Context(ctx).Do()
	if err != nil {
		instrumentation.SetSpanError(span, err)
		logging.WithOperation(slog.Default(), instrumentation.OperationSearchAnalyticsQuery).Warn("Search Console query failed",
			logging.Provider("gsc"),
			slog.String("property", siteURL),
			logging.Err(err))
		c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceSearchConsole,
			instrumentation.OperationSearchAnalyticsQuery, instrumentation.StatusError, 0, time.Since(start))
		return nil, fmt.Errorf("failed to query search analytics for %s: %w", siteURL, err)
	}

	rows := make([]Row, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		rows = append(rows, toRow(r))
	}

	span.SetAttributes(instrumentation.RowsAttribute(len(rows)))
	instrumentation.SetSpanSuccess(span)
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceSearchConsole,
		instrumentation.OperationSearchAnalyticsQuery, instrumentation.StatusSuccess, len(rows), time.Since(start))

	return rows, nil
}
