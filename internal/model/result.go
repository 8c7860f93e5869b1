package model

import "time"

// KeywordCount is one entry of the stopword-filtered top-keyword list.
type KeywordCount struct {
	Word   string  `json:"word"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"` // count / total token count
}

// ReviewSample is a representative review quoted in the report.
type ReviewSample struct {
	ID       string  `json:"id"`
	Rating   float64 `json:"rating"`
	Title    string  `json:"title,omitempty"`
	Excerpt  string  `json:"excerpt"`
	Compound float64 `json:"compound"`
}

// AnalysisResult is the complete intelligence report for one product.
// It is a value object: identical filtered input and stats produce an
// identical result apart from ReportID and GeneratedAt.
type AnalysisResult struct {
	ReportID  string       `json:"report_id"`
	ProductID string       `json:"product_id"`
	Product   *ProductInfo `json:"product,omitempty"`

	// Provenance.
	Locale       string   `json:"locale"`
	Source       string   `json:"source"`
	Fallback     bool     `json:"fallback"`
	LocalesTried []string `json:"locales_tried"`

	// Counts. TotalReviews counts normalized reviews; AnalyzedReviews counts
	// those that survived the bot filter.
	TotalReviews    int `json:"total_reviews"`
	AnalyzedReviews int `json:"analyzed_reviews"`

	RatingDistribution    map[string]int `json:"rating_distribution"` // "1".."5" buckets
	AverageRating         float64        `json:"average_rating"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
	MeanCompound          float64        `json:"mean_compound"`
	MeanSubjectivity      float64        `json:"mean_subjectivity"`

	TopKeywords []KeywordCount `json:"top_keywords"`
	Themes      []Theme        `json:"themes"`
	Emotions    EmotionVector  `json:"emotions"`

	PositiveSamples []ReviewSample `json:"positive_samples"`
	NegativeSamples []ReviewSample `json:"negative_samples"`
	NeutralSamples  []ReviewSample `json:"neutral_samples"`

	Insights []string `json:"insights"`
	BotStats BotStats `json:"bot_stats"`

	// Narrative is the optional LLM-generated prose summary. It never feeds
	// back into any score or insight.
	Narrative string `json:"narrative,omitempty"`

	// PartialFailures lists analysis stages that degraded to defaults.
	PartialFailures []string `json:"partial_failures,omitempty"`

	GeneratedAt time.Time     `json:"generated_at"`
	Elapsed     time.Duration `json:"elapsed_ms"`
}
