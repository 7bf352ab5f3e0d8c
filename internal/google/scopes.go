package google

import (
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	searchconsole "google.golang.org/api/searchconsole/v1"
)

// AnalyticsScopes are the OAuth scopes requested for the shared service
// account credential. Both are read-only:
//   - Search Console: webmasters.readonly
//   - Analytics Data API: analytics.readonly
var AnalyticsScopes = []string{
	searchconsole.WebmastersReadonlyScope,
	analyticsdata.AnalyticsReadonlyScope,
}
