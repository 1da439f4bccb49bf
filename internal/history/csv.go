package history

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yildizm/SentiDash/internal/common"
)

// CSVHeader is the first row of every export
var CSVHeader = []string{"ID", "Text", "Category", "Rating", "Sentiment", "Confidence", "Date"}

// CSVDateLayout formats the Date column
const CSVDateLayout = "2006-01-02 15:04:05"

// DefaultExportName is the file name used when none is given
const DefaultExportName = "review_history.csv"

// WriteCSV writes records under CSVHeader. The Text column is always quoted
// with internal quotes doubled; other columns are quoted only when needed.
func WriteCSV(w io.Writer, records []common.Record) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(CSVHeader, ",") + "\n"); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{
			quoteIfNeeded(string(r.ID)),
			quote(r.Text),
			quoteIfNeeded(r.Category),
			strconv.Itoa(r.Rating),
			quoteIfNeeded(string(r.Sentiment)),
			strconv.FormatFloat(r.Confidence, 'f', -1, 64),
			formatCSVTime(r.Timestamp),
		}
		if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return fmt.Errorf("failed to write CSV record %s: %w", r.ID, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}

func formatCSVTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(CSVDateLayout)
}
