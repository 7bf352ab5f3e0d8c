// Package searchconsole wraps the Google Search Console API (searchconsole/v1)
// for search analytics queries.
//
// Only the searchanalytics.query endpoint is used. Rows come back in their
// upstream shape: the dimension values in keys, followed by the fixed metric
// set clicks, impressions, ctr and position.
//
// # Example Usage
//
//	client, err := searchconsole.NewClient(ctx, metrics, option.WithHTTPClient(httpClient))
//	if err != nil {
//	    return err
//	}
//
//	rows, err := client.QuerySearchAnalytics(ctx, "https://example.com/", searchconsole.Query{
//	    StartDate:  "2024-01-01",
//	    EndDate:    "2024-01-31",
//	    Dimensions: []string{"query"},
//	    RowLimit:   50,
//	})
package searchconsole
