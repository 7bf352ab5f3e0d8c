package ga4

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"

	"github.com/teemow/unified-analytics/internal/instrumentation"
	"github.com/teemow/unified-analytics/internal/logging"
)

// Client wraps the Analytics Data service
type Client struct {
	svc     *analyticsdata.Service
	metrics *instrumentation.Metrics
}

// NewClient creates an Analytics Data client. Authentication is supplied
// through opts. metrics may be nil.
func NewClient(ctx context.Context, metrics *instrumentation.Metrics, opts ...option.ClientOption) (*Client, error) {
	svc, err := analyticsdata.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Analytics Data service: %w", err)
	}

	return &Client{
		svc:     svc,
		metrics: metrics,
	}, nil
}

// RunReport runs req against the given property and flattens the rows.
func (c *Client) RunReport(ctx context.Context, propertyID string, req ReportRequest) ([]Row, error) {
	property := PropertyName(propertyID)

	ctx, span := instrumentation.StartGoogleAPISpan(ctx,
		instrumentation.ServiceAnalytics,
		instrumentation.OperationRunReport,
		instrumentation.NewSpanAttributeBuilder().
			WithProperty(property).
			WithRowLimit(req.Limit).
			Build()...)
	defer span.End()

	start := time.Now()
	resp, err := c.svc.Properties.RunReport(property, req.toRequest()).Context(ctx).Do()
	if err != nil {
		instrumentation.SetSpanError(span, err)
		logging.WithOperation(slog.Default(), instrumentation.OperationRunReport).Warn("GA4 report failed",
			logging.Provider("ga4"),
			slog.String("property", property),
			logging.Err(err))
		c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceAnalytics,
			instrumentation.OperationRunReport, instrumentation.StatusError, 0, time.Since(start))
		return nil, fmt.Errorf("failed to run report for %s: %w", property, err)
	}

	rows := make([]Row, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		rows = append(rows, zipRow(req.Dimensions, req.Metrics, r))
	}

	span.SetAttributes(instrumentation.RowsAttribute(len(rows)))
	instrumentation.SetSpanSuccess(span)
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceAnalytics,
		instrumentation.OperationRunReport, instrumentation.StatusSuccess, len(rows), time.Since(start))

	return rows, nil
}
