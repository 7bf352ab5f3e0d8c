// Package google loads the service account credential shared by the Search
// Console and GA4 clients.
//
// The credential is a JSON key file for a Google Cloud service account. The
// service account email must be granted access to every configured Search
// Console property and GA4 property. The loader turns the key into an
// authenticated *http.Client scoped to AnalyticsScopes; token exchange and
// refresh are handled by golang.org/x/oauth2.
package google
