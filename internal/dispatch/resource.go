package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/teemow/unified-analytics/internal/analytics"
	"github.com/teemow/unified-analytics/internal/logging"
)

// Dashboard resource URIs have the form analytics://dashboard/<period>/<site>.
// The short form analytics://dashboard/<period> reads the default site.
const (
	ResourceScheme = "analytics"
	ResourceHost   = "dashboard"

	// DashboardTemplate is the RFC 6570 template of the dashboard URIs.
	DashboardTemplate = ResourceScheme + "://" + ResourceHost + "/{period}/{site}"
)

// Period names a dashboard date range relative to today.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodWeek      Period = "week"
	PeriodMonth     Period = "month"
)

// Periods lists every dashboard period.
var Periods = []Period{PeriodToday, PeriodYesterday, PeriodWeek, PeriodMonth}

// ParsePeriod returns the Period called s.
func ParsePeriod(s string) (Period, bool) {
	for _, p := range Periods {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Range returns the inclusive date range of p as seen at now.
func (p Period) Range(now time.Time) analytics.DateRange {
	const layout = "2006-01-02"
	today := now.Format(layout)

	switch p {
	case PeriodYesterday:
		y := now.AddDate(0, 0, -1).Format(layout)
		return analytics.DateRange{StartDate: y, EndDate: y}
	case PeriodWeek:
		return analytics.DateRange{StartDate: now.AddDate(0, 0, -7).Format(layout), EndDate: today}
	case PeriodMonth:
		return analytics.DateRange{StartDate: now.AddDate(0, 0, -30).Format(layout), EndDate: today}
	default:
		return analytics.DateRange{StartDate: today, EndDate: today}
	}
}

// DashboardURI returns the resource URI for period and site. An empty site
// gives the short form.
func DashboardURI(p Period, site string) string {
	uri := ResourceScheme + "://" + ResourceHost + "/" + string(p)
	if site != "" {
		uri += "/" + site
	}
	return uri
}

// ParseDashboardURI splits a dashboard URI into its period and site key. The
// site is empty for the short form.
func ParseDashboardURI(uri string) (Period, string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", &analytics.MalformedResourceURIError{URI: uri, Reason: err.Error()}
	}
	if u.Scheme != ResourceScheme {
		return "", "", &analytics.MalformedResourceURIError{URI: uri, Reason: fmt.Sprintf("scheme must be %s", ResourceScheme)}
	}
	if u.Host != ResourceHost {
		return "", "", &analytics.MalformedResourceURIError{URI: uri, Reason: fmt.Sprintf("host must be %s", ResourceHost)}
	}

	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "", "", &analytics.UnknownResourceError{URI: uri}
	}
	segments := strings.Split(path, "/")
	if len(segments) > 2 {
		return "", "", &analytics.UnknownResourceError{URI: uri}
	}

	period, ok := ParsePeriod(segments[0])
	if !ok {
		return "", "", &analytics.UnknownResourceError{URI: uri}
	}

	var site string
	if len(segments) == 2 {
		site = segments[1]
	}
	return period, site, nil
}

// ReadResource renders the dashboard at uri. Errors are returned as an error
// payload.
func (d *Dispatcher) ReadResource(ctx context.Context, uri string) string {
	return d.Read(ctx, uri).Text
}

// Read is ReadResource with the full Result.
func (d *Dispatcher) Read(ctx context.Context, uri string) Result {
	res, err := d.readResource(ctx, uri)
	if err != nil {
		d.logger.Debug("resource read failed", logging.ResourceURI(uri), logging.Err(err))
		res.IsError = true
		res.Err = err
		res.Text = errorPayload(fmt.Sprintf("Error reading resource %s: %v", uri, err))
	}
	return res
}

func (d *Dispatcher) readResource(ctx context.Context, uri string) (Result, error) {
	period, siteKey, err := ParseDashboardURI(uri)
	if err != nil {
		return Result{}, err
	}

	site, err := d.sites.Resolve(siteKey)
	if err != nil {
		return Result{}, err
	}

	dr := period.Range(d.now())
	args := &DateRangeArgs{Site: site.Key, StartDate: dr.StartDate, EndDate: dr.EndDate}

	return d.cached(ctx, ToolCombinedPerformance, site.Key, args, func(r *analytics.Reporter) (interface{}, error) {
		return r.CombinedPerformance(ctx, site.Key, args.Range())
	})
}
