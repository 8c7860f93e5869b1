package model

// BotVerdict is the bot-likelihood assessment for a single review.
type BotVerdict struct {
	Score      float64  `json:"score"`      // 0-1, capped
	Flagged    bool     `json:"flagged"`    // score >= configured threshold
	Indicators []string `json:"indicators"` // which heuristics fired
}

// BotStats summarizes a batch-level bot filtering pass.
type BotStats struct {
	Total           int     `json:"total"`
	GenuineCount    int     `json:"genuine_count"`
	BotCount        int     `json:"bot_count"`
	BotPercentage   float64 `json:"bot_percentage"`
	SuspiciousCount int     `json:"suspicious_count"` // mid-band below the flag threshold
}

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// SentimentVerdict fuses the lexicon compound scorer and the
// polarity/subjectivity scorer into one decision.
type SentimentVerdict struct {
	Label        string  `json:"label"`        // positive, neutral, negative
	Compound     float64 `json:"compound"`     // lexicon intensity in [-1,1]
	Polarity     float64 `json:"polarity"`     // second scorer polarity in [-1,1]
	Subjectivity float64 `json:"subjectivity"` // [0,1]
	Confidence   float64 `json:"confidence"`   // mean(|compound|,|polarity|) capped at 1
}

// SentimentStats holds batch-level sentiment aggregates over filtered reviews.
type SentimentStats struct {
	Distribution     map[string]int `json:"distribution"`
	MeanCompound     float64        `json:"mean_compound"`
	MeanSubjectivity float64        `json:"mean_subjectivity"`
}

// EmotionVector holds the eight affect dimensions, each independently in [0,1].
// Dimensions are not normalized against each other.
type EmotionVector struct {
	Joy          float64 `json:"joy"`
	Trust        float64 `json:"trust"`
	Anticipation float64 `json:"anticipation"`
	Surprise     float64 `json:"surprise"`
	Sadness      float64 `json:"sadness"`
	Anger        float64 `json:"anger"`
	Fear         float64 `json:"fear"`
	Disgust      float64 `json:"disgust"`
}

// IsZero reports whether no dimension carries signal.
func (v EmotionVector) IsZero() bool {
	return v == EmotionVector{}
}

// emotionOrder fixes the dimension iteration so tie-breaking in Dominant is
// deterministic.
var emotionOrder = []string{
	"joy", "trust", "anticipation", "surprise",
	"sadness", "anger", "fear", "disgust",
}

// Dominant returns the strongest dimension and its value. Ties go to the
// earlier dimension in emotionOrder. Returns an empty name for an all-zero
// vector.
func (v EmotionVector) Dominant() (string, float64) {
	m := v.Map()
	name, best := "", 0.0
	for _, dim := range emotionOrder {
		if m[dim] > best {
			name, best = dim, m[dim]
		}
	}
	return name, best
}

// Map returns the vector as dimension-name to value pairs.
func (v EmotionVector) Map() map[string]float64 {
	return map[string]float64{
		"joy":          v.Joy,
		"trust":        v.Trust,
		"anticipation": v.Anticipation,
		"surprise":     v.Surprise,
		"sadness":      v.Sadness,
		"anger":        v.Anger,
		"fear":         v.Fear,
		"disgust":      v.Disgust,
	}
}

// Theme is a discovered discussion topic over the review corpus.
type Theme struct {
	Label     string   `json:"label"`
	Keywords  []string `json:"keywords"`
	Mentions  int      `json:"mentions"`
	Sentiment string   `json:"sentiment"` // positive, neutral, negative from member reviews
}
