package history

import (
	"math"

	"github.com/yildizm/SentiDash/internal/common"
)

// Summary counts a set of records
type Summary struct {
	Total         int `json:"total"`
	Positive      int `json:"positive"`
	Negative      int `json:"negative"`
	AvgConfidence int `json:"avg_confidence"` // whole percent
}

// Summarize computes totals over records
func Summarize(records []common.Record) Summary {
	s := Summary{Total: len(records)}
	if s.Total == 0 {
		return s
	}

	var sum float64
	for _, r := range records {
		switch r.Sentiment {
		case common.SentimentPositive:
			s.Positive++
		case common.SentimentNegative:
			s.Negative++
		}
		sum += r.Confidence
	}
	s.AvgConfidence = int(math.Round(sum / float64(s.Total) * 100))
	return s
}
