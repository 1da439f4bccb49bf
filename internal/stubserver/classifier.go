package stubserver

import (
	"math"
	"strings"
	"unicode"

	"github.com/yildizm/SentiDash/internal/common"
)

var positiveWords = map[string]bool{
	"amazing": true, "awesome": true, "best": true, "elegant": true,
	"excellent": true, "exceeded": true, "fantastic": true, "good": true,
	"great": true, "happy": true, "love": true, "outstanding": true,
	"perfect": true, "perfectly": true, "recommend": true, "wonderful": true,
}

var negativeWords = map[string]bool{
	"awful": true, "bad": true, "broke": true, "broken": true,
	"cheap": true, "disappointed": true, "hate": true, "horrible": true,
	"poor": true, "refund": true, "terrible": true, "useless": true,
	"waste": true, "worst": true, "not": true, "too": true,
}

// classify scores text by counting sentiment words. Ties are Negative,
// like a model biased toward caution.
func classify(text string) (common.Sentiment, float64) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	var pos, neg int
	for _, w := range words {
		switch {
		case positiveWords[w]:
			pos++
		case negativeWords[w]:
			neg++
		}
	}

	sentiment := common.SentimentNegative
	if pos > neg {
		sentiment = common.SentimentPositive
	}
	diff := math.Abs(float64(pos - neg))
	confidence := 0.5 + 0.49*diff/(diff+1)
	return sentiment, math.Round(confidence*100) / 100
}
