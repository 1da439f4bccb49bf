package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/history"
)

// csvFormatter writes the tabular part of a report as CSV
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

// Format writes history in the export layout: the whole filtered view when
// the section carries it, the page otherwise. Reports without history fall
// back to trend rows, then category rows.
func (f *csvFormatter) Format(report *Report) ([]byte, error) {
	var b bytes.Buffer

	switch {
	case report.History != nil:
		records := report.History.Records
		if records == nil {
			records = report.History.Page.Items
		}
		if err := history.WriteCSV(&b, records); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	case report.Analysis != nil:
		if err := history.WriteCSV(&b, []common.Record{*report.Analysis}); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	}

	writer := csv.NewWriter(&b)
	var rows [][]string

	switch {
	case report.Insights != nil:
		rows = append(rows, []string{"Period", "Positive %", "Negative %", "Reviews"})
		for _, bucket := range report.Insights.Aggregate.Trend.Buckets {
			pos, neg := 0.0, 0.0
			if bucket.Total > 0 {
				pos = float64(bucket.Positive) / float64(bucket.Total) * 100
				neg = float64(bucket.Negative) / float64(bucket.Total) * 100
			}
			rows = append(rows, []string{bucket.Label, formatFloat(pos), formatFloat(neg), strconv.Itoa(bucket.Total)})
		}
	case report.Metrics != nil:
		rows = append(rows, []string{"Category", "Reviews"})
		for _, label := range report.Metrics.Metrics.CategoryLabels() {
			rows = append(rows, []string{label, strconv.Itoa(report.Metrics.Metrics.Categories[label])})
		}
	default:
		return nil, fmt.Errorf("report has no tabular section")
	}

	if err := writer.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return b.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
