package chart

// Recorder is a Bridge that keeps every draw call, for tests and for
// surfaces that redraw lazily from the last series.
type Recorder struct {
	Calls      []string
	Sentiment  SentimentSeries
	Categories CategorySeries
	Trend      TrendSeries
}

// DrawSentiment implements Bridge
func (r *Recorder) DrawSentiment(s SentimentSeries) {
	r.Calls = append(r.Calls, "sentiment")
	r.Sentiment = s
}

// DrawCategories implements Bridge
func (r *Recorder) DrawCategories(c CategorySeries) {
	r.Calls = append(r.Calls, "categories")
	r.Categories = c
}

// DrawTrend implements Bridge
func (r *Recorder) DrawTrend(t TrendSeries) {
	r.Calls = append(r.Calls, "trend")
	r.Trend = t
}
