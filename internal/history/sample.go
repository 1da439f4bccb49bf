package history

import (
	"time"

	"github.com/yildizm/SentiDash/internal/common"
)

// SampleRecords returns the built-in demo history, newest first, one day
// apart ending at now. It stands in for the server history when that is
// empty or unreachable.
func SampleRecords(now time.Time) []common.Record {
	day := 24 * time.Hour
	return []common.Record{
		{
			ID:         "1",
			Text:       "This product exceeded my expectations! The quality is outstanding and it arrived earlier than expected. Highly recommend!",
			Category:   "Electronics",
			Rating:     5,
			Sentiment:  common.SentimentPositive,
			Confidence: 0.92,
			Timestamp:  now,
		},
		{
			ID:         "2",
			Text:       "I'm very disappointed with this purchase. The product broke after just one week of use. Poor quality materials.",
			Category:   "Home & Kitchen",
			Rating:     2,
			Sentiment:  common.SentimentNegative,
			Confidence: 0.87,
			Timestamp:  now.Add(-day),
		},
		{
			ID:         "3",
			Text:       "Average product, nothing special. It does what it's supposed to do but the price is too high for what you get.",
			Category:   "Sports",
			Rating:     3,
			Sentiment:  common.SentimentNegative,
			Confidence: 0.78,
			Timestamp:  now.Add(-2 * day),
		},
		{
			ID:         "4",
			Text:       "Absolutely love it! Best purchase I've made this year. The design is elegant and it works perfectly.",
			Category:   "Clothing",
			Rating:     5,
			Sentiment:  common.SentimentPositive,
			Confidence: 0.95,
			Timestamp:  now.Add(-3 * day),
		},
		{
			ID:         "5",
			Text:       "Not worth the money. The product looks cheap and doesn't match the description at all.",
			Category:   "Books",
			Rating:     1,
			Sentiment:  common.SentimentNegative,
			Confidence: 0.89,
			Timestamp:  now.Add(-4 * day),
		},
	}
}
