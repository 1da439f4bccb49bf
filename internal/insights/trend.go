package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/yildizm/SentiDash/internal/common"
)

// Granularity is the width of a trend bucket
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// DefaultGranularity buckets trends by calendar month
const DefaultGranularity = GranularityMonth

// ParseGranularity accepts day, week or month; empty means DefaultGranularity
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return DefaultGranularity, nil
	case GranularityDay, GranularityWeek, GranularityMonth:
		return g, nil
	default:
		return "", fmt.Errorf("invalid granularity %q: must be day, week or month", s)
	}
}

// start truncates t to the beginning of its bucket in t's location
func (g Granularity) start(t time.Time) time.Time {
	y, m, d := t.Date()
	switch g {
	case GranularityDay:
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	case GranularityWeek:
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	}
}

func (g Granularity) next(t time.Time) time.Time {
	switch g {
	case GranularityDay:
		return t.AddDate(0, 0, 1)
	case GranularityWeek:
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 1, 0)
	}
}

func (g Granularity) label(t time.Time) string {
	if g == GranularityMonth || g == "" {
		return t.Format("Jan 2006")
	}
	return t.Format("Jan 02")
}

// TrendBucket counts the records of one time bucket
type TrendBucket struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Label    string    `json:"label"`
	Positive int       `json:"positive"`
	Negative int       `json:"negative"`
	Total    int       `json:"total"`
}

// Trend is the time-bucketed sentiment series. Positive and Negative are
// percentages parallel to Labels; empty buckets are 0/0.
type Trend struct {
	Granularity Granularity   `json:"granularity"`
	Labels      []string      `json:"labels"`
	Positive    []float64     `json:"positive"`
	Negative    []float64     `json:"negative"`
	Buckets     []TrendBucket `json:"buckets"`
}

// BuildTrend buckets records from the earliest to the latest timestamp,
// including empty buckets in between. Records without a timestamp are skipped.
func BuildTrend(records []common.Record, granularity Granularity) Trend {
	if granularity == "" {
		granularity = DefaultGranularity
	}
	trend := Trend{
		Granularity: granularity,
		Labels:      []string{},
		Positive:    []float64{},
		Negative:    []float64{},
		Buckets:     []TrendBucket{},
	}

	dated := make([]common.Record, 0, len(records))
	for _, r := range records {
		if !r.Timestamp.IsZero() {
			dated = append(dated, r)
		}
	}
	if len(dated) == 0 {
		return trend
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Timestamp.Before(dated[j].Timestamp)
	})

	loc := dated[0].Timestamp.Location()
	first := granularity.start(dated[0].Timestamp)
	last := granularity.start(dated[len(dated)-1].Timestamp.In(loc))

	for current := first; !current.After(last); current = granularity.next(current) {
		trend.Buckets = append(trend.Buckets, TrendBucket{
			Start: current,
			End:   granularity.next(current),
			Label: granularity.label(current),
		})
	}

	b := 0
	for _, r := range dated {
		ts := r.Timestamp.In(loc)
		for b < len(trend.Buckets)-1 && !ts.Before(trend.Buckets[b].End) {
			b++
		}
		bucket := &trend.Buckets[b]
		bucket.Total++
		switch r.Sentiment {
		case common.SentimentPositive:
			bucket.Positive++
		case common.SentimentNegative:
			bucket.Negative++
		}
	}

	for _, bucket := range trend.Buckets {
		trend.Labels = append(trend.Labels, bucket.Label)
		trend.Positive = append(trend.Positive, percent(bucket.Positive, bucket.Total))
		trend.Negative = append(trend.Negative, percent(bucket.Negative, bucket.Total))
	}
	return trend
}

// Direction summarizes where the positive share is heading
type Direction struct {
	Type     string  `json:"type"`     // "improving", "declining", "stable"
	Slope    float64 `json:"slope"`    // percentage points per bucket
	Strength float64 `json:"strength"` // 0-1, absolute correlation
}

// DetectDirection fits a line through the positive percentages of the
// non-empty buckets. Fewer than three points give "stable".
func DetectDirection(trend Trend) Direction {
	var xs, ys []float64
	for i, bucket := range trend.Buckets {
		if bucket.Total == 0 {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, trend.Positive[i])
	}

	n := float64(len(xs))
	if len(xs) < 3 {
		return Direction{Type: "stable"}
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var ssX, ssY, ssXY float64
	for i := range xs {
		ssX += (xs[i] - meanX) * (xs[i] - meanX)
		ssY += (ys[i] - meanY) * (ys[i] - meanY)
		ssXY += (xs[i] - meanX) * (ys[i] - meanY)
	}

	d := Direction{Type: "stable"}
	if ssX > 0 {
		d.Slope = ssXY / ssX
	}
	if ssX > 0 && ssY > 0 {
		d.Strength = math.Abs(ssXY / math.Sqrt(ssX*ssY))
	}

	switch {
	case d.Slope > 1:
		d.Type = "improving"
	case d.Slope < -1:
		d.Type = "declining"
	}
	return d
}
