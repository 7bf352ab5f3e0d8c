// Package ga4 wraps the Google Analytics Data API (analyticsdata/v1beta) for
// GA4 property reports.
//
// Reports are flattened positionally: the i-th dimension value of a response
// row is named after the i-th requested dimension and the i-th metric value
// after the i-th requested metric. Values beyond the requested arity are named
// dimension_<i> and metric_<i>. Every value stays a string, as returned by the
// API.
package ga4
