package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Sentiment is the binary label produced by the server-side model
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
)

// Categories lists the product categories offered by the analyze form
var Categories = []string{
	"Electronics",
	"Books",
	"Clothing",
	"Home & Kitchen",
	"Sports",
	"Toys",
}

// DefaultCategory is preselected in the analyze form
const DefaultCategory = "Electronics"

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// ParseSentiment normalizes a wire label, returning false for unknown labels
func ParseSentiment(s string) (Sentiment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "1":
		return SentimentPositive, true
	case "negative", "0":
		return SentimentNegative, true
	default:
		return "", false
	}
}

// Label returns the display label, e.g. "Positive Sentiment"
func (s Sentiment) Label() string {
	if s == SentimentPositive {
		return "Positive Sentiment"
	}
	return "Negative Sentiment"
}

// ID identifies a review record. The server emits both numbers and strings.
type ID string

// UnmarshalJSON accepts a JSON string or number
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(data), err)
	}
	*id = ID(n.String())
	return nil
}

// Record is one past analysis result. Records are values and never mutated once created.
type Record struct {
	ID         ID        `json:"id"`
	Text       string    `json:"text"`
	Category   string    `json:"category"`
	Rating     int       `json:"rating"`
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// recordWire mirrors the loose shape the server sends
type recordWire struct {
	ID            ID              `json:"id"`
	Text          string          `json:"text"`
	ReviewText    string          `json:"review_text"`
	Category      string          `json:"category"`
	Rating        json.RawMessage `json:"rating"`
	Sentiment     json.RawMessage `json:"sentiment"`
	SentimentText json.RawMessage `json:"sentiment_text"`
	Confidence    float64         `json:"confidence"`
	Timestamp     string          `json:"timestamp"`
	Date          string          `json:"date"`
}

// UnmarshalJSON decodes a record from any of the observed server shapes.
// A rating or date it cannot read is left zero so that one odd record does
// not fail a whole history.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w recordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	r.ID = w.ID
	r.Text = w.Text
	if r.Text == "" {
		r.Text = w.ReviewText
	}
	r.Category = w.Category
	r.Confidence = w.Confidence

	if rating, err := decodeRating(w.Rating); err == nil {
		r.Rating = rating
	}

	label := rawLabel(w.SentimentText)
	if label == "" {
		label = rawLabel(w.Sentiment)
	}
	if s, ok := ParseSentiment(label); ok {
		r.Sentiment = s
	} else {
		r.Sentiment = Sentiment(label)
	}

	raw := w.Timestamp
	if raw == "" {
		raw = w.Date
	}
	if ts, err := ParseTimestamp(raw); err == nil {
		r.Timestamp = ts
	}
	return nil
}

// rawLabel reads a label given as a string or a bare 0/1 number
func rawLabel(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// decodeRating accepts 5, "5" or an absent value
func decodeRating(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("invalid rating %q: %w", s, err)
		}
		return n, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("invalid rating %s: %w", string(raw), err)
	}
	return int(f), nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006, 3:04:05 PM",
	"1/2/2006",
}

// ParseTimestamp parses the timestamp formats the server and the legacy
// front end have been seen to produce. Zone-less values are read as local time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Request is the input of one analysis
type Request struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Rating   int    `json:"rating"`
}

// Validate checks the request before any network call
func (r Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("review text is empty")
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return fmt.Errorf("rating %d out of range %d-%d", r.Rating, MinRating, MaxRating)
	}
	return nil
}

// ConfidencePercent renders a confidence in [0,1] as a whole percentage, e.g. "90%"
func ConfidencePercent(confidence float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(confidence*100)))
}

// StarRating renders a 1-5 rating as filled and empty stars
func StarRating(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > MaxRating {
		rating = MaxRating
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", MaxRating-rating)
}

// Truncate shortens text to maxLen runes, appending "..." when cut
func Truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
