package ga4

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
)

// ReportRequest describes one runReport call. Order of Dimensions and Metrics
// is significant.
type ReportRequest struct {
	Dimensions []string
	Metrics    []string
	StartDate  string
	EndDate    string
	Limit      int64
}

// Field is a named report value.
type Field struct {
	Name  string
	Value string
}

// Row is one flattened report row. Fields keep response order and
// serialize as a JSON object in that order.
type Row []Field

// Get returns the value of the first field called name.
func (r Row) Get(name string) (string, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// MarshalJSON writes the row as an object with fields in row order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object written by MarshalJSON. Field order and
// duplicate names are kept. Values must be strings.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ga4 row: expected object, got %v", tok)
	}

	row := make(Row, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("ga4 row: expected field name, got %v", tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return err
		}
		value, ok := tok.(string)
		if !ok {
			return fmt.Errorf("ga4 row: field %s: expected string value, got %v", name, tok)
		}
		row = append(row, Field{Name: name, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = row
	return nil
}

// PropertyName returns the API resource name for a GA4 property id. Ids that
// already carry the properties/ prefix are returned unchanged.
func PropertyName(propertyID string) string {
	if strings.HasPrefix(propertyID, "properties/") {
		return propertyID
	}
	return "properties/" + propertyID
}

func (r ReportRequest) toRequest() *analyticsdata.RunReportRequest {
	req := &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{{
			StartDate: r.StartDate,
			EndDate:   r.EndDate,
		}},
		Limit: r.Limit,
	}
	for _, d := range r.Dimensions {
		req.Dimensions = append(req.Dimensions, &analyticsdata.Dimension{Name: d})
	}
	for _, m := range r.Metrics {
		req.Metrics = append(req.Metrics, &analyticsdata.Metric{Name: m})
	}
	return req
}

// zipRow names each value of row after its requested dimension or metric.
func zipRow(dimensions, metrics []string, row *analyticsdata.Row) Row {
	if row == nil {
		return Row{}
	}

	out := make(Row, 0, len(row.DimensionValues)+len(row.MetricValues))
	for i, v := range row.DimensionValues {
		out = append(out, Field{Name: fieldName(dimensions, "dimension_", i), Value: value(v)})
	}
	for i, v := range row.MetricValues {
		out = append(out, Field{Name: fieldName(metrics, "metric_", i), Value: metricValue(v)})
	}
	return out
}

func fieldName(requested []string, fallbackPrefix string, i int) string {
	if i < len(requested) {
		return requested[i]
	}
	return fallbackPrefix + strconv.Itoa(i)
}

func value(v *analyticsdata.DimensionValue) string {
	if v == nil {
		return ""
	}
	return v.Value
}

func metricValue(v *analyticsdata.MetricValue) string {
	if v == nil {
		return ""
	}
	return v.Value
}
