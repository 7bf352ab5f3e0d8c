// Package resources registers the analytics dashboard resources.
//
// A dashboard is the combined performance report of one site over a period
// relative to today (today, yesterday, week, month). It is addressed as
// analytics://dashboard/<period>/<site>. The short form
// analytics://dashboard/<period> reads the default site.
package resources
