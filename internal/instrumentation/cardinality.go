package instrumentation

// Cardinality helpers for metric labels.
//
// Tool names and site keys reach the server from the wire. Recording them
// verbatim would let any client mint new label values, so labels are
// bounded to known sets before being recorded.

// LabelOther replaces label values outside the known set.
const LabelOther = "other"

// Upstream operation names used in google_api_* metrics and span names.
const (
	OperationSearchAnalyticsQuery = "searchanalytics.query"
	OperationRunReport            = "runReport"
)

// BoundedLabel returns value when it is in known and LabelOther otherwise.
//
// Example:
//
//	BoundedLabel("gsc_top_queries", tools)  // "gsc_top_queries"
//	BoundedLabel("rm_rf", tools)            // "other"
//	BoundedLabel("", tools)                 // "other"
func BoundedLabel(value string, known []string) string {
	for _, k := range known {
		if k == value && value != "" {
			return value
		}
	}
	return LabelOther
}
