// Package insight assembles the final report from filtered, scored reviews:
// rating and sentiment distributions, keyword extraction, representative
// samples, and rule-driven findings.
package insight

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/reviewlens/internal/model"
	"github.com/ppiankov/reviewlens/internal/util"
)

const excerptLen = 200

// Aggregator builds AnalysisResults. Stateless; one instance serves
// concurrent batches.
type Aggregator struct {
	topKeywords int
	sampleCount int
}

// New builds an aggregator from the analysis config.
func New(cfg model.AnalysisConfig) *Aggregator {
	return &Aggregator{topKeywords: cfg.TopKeywords, sampleCount: cfg.SampleCount}
}

// Input carries everything the aggregator consumes. Reviews are the
// bot-filtered set with sentiment and emotion verdicts attached.
type Input struct {
	Fetch          *model.FetchResult
	Reviews        []model.NormalizedReview
	TotalReviews   int
	BotStats       model.BotStats
	SentimentStats model.SentimentStats
	Themes         []model.Theme
	Emotions       model.EmotionVector
}

// Build assembles the report. Pure with respect to its input: the same
// input yields the same report body.
func (a *Aggregator) Build(in Input) *model.AnalysisResult {
	res := &model.AnalysisResult{
		ProductID:             in.Fetch.Product.ProductID,
		Product:               in.Fetch.Product,
		Locale:                in.Fetch.Locale,
		Source:                in.Fetch.Source,
		Fallback:              in.Fetch.Fallback,
		LocalesTried:          in.Fetch.LocalesTried,
		TotalReviews:          in.TotalReviews,
		AnalyzedReviews:       len(in.Reviews),
		SentimentDistribution: in.SentimentStats.Distribution,
		MeanCompound:          in.SentimentStats.MeanCompound,
		MeanSubjectivity:      in.SentimentStats.MeanSubjectivity,
		Themes:                in.Themes,
		Emotions:              in.Emotions,
		BotStats:              in.BotStats,
	}

	res.RatingDistribution, res.AverageRating = ratingDistribution(in.Reviews)
	res.TopKeywords = topKeywords(in.Reviews, a.topKeywords)
	res.PositiveSamples, res.NegativeSamples, res.NeutralSamples = samples(in.Reviews, a.sampleCount)
	res.Insights = deriveInsights(res)

	return res
}

// ratingDistribution buckets rated reviews into "1".."5" and returns the
// mean. Unrated reviews are excluded from both.
func ratingDistribution(reviews []model.NormalizedReview) (map[string]int, float64) {
	dist := map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}
	var sum float64
	var rated int

	for i := range reviews {
		if !reviews[i].HasRating {
			continue
		}
		bucket := int(reviews[i].Rating + 0.5)
		if bucket < 1 {
			bucket = 1
		}
		if bucket > 5 {
			bucket = 5
		}
		dist[strconv.Itoa(bucket)]++
		sum += reviews[i].Rating
		rated++
	}

	if rated == 0 {
		return dist, 0
	}
	return dist, sum / float64(rated)
}

// topKeywords counts stopword-filtered tokens across all review text.
func topKeywords(reviews []model.NormalizedReview, limit int) []model.KeywordCount {
	counts := map[string]int{}
	total := 0
	for i := range reviews {
		for _, tok := range util.Tokenize(reviews[i].Text()) {
			counts[tok]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	keywords := make([]model.KeywordCount, 0, len(counts))
	for word, count := range counts {
		keywords = append(keywords, model.KeywordCount{
			Word:   word,
			Count:  count,
			Weight: float64(count) / float64(total),
		})
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return keywords[i].Word < keywords[j].Word
	})
	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}

// samples picks the strongest reviews per sentiment label: positives by
// highest compound, negatives by lowest, neutrals by closest to zero.
func samples(reviews []model.NormalizedReview, count int) (pos, neg, neu []model.ReviewSample) {
	var positive, negative, neutral []*model.NormalizedReview
	for i := range reviews {
		r := &reviews[i]
		if r.Sentiment == nil || !r.HasText() {
			continue
		}
		switch r.Sentiment.Label {
		case model.SentimentPositive:
			positive = append(positive, r)
		case model.SentimentNegative:
			negative = append(negative, r)
		default:
			neutral = append(neutral, r)
		}
	}

	sort.SliceStable(positive, func(i, j int) bool {
		return positive[i].Sentiment.Compound > positive[j].Sentiment.Compound
	})
	sort.SliceStable(negative, func(i, j int) bool {
		return negative[i].Sentiment.Compound < negative[j].Sentiment.Compound
	})
	sort.SliceStable(neutral, func(i, j int) bool {
		return abs(neutral[i].Sentiment.Compound) < abs(neutral[j].Sentiment.Compound)
	})

	return toSamples(positive, count), toSamples(negative, count), toSamples(neutral, count)
}

func toSamples(reviews []*model.NormalizedReview, count int) []model.ReviewSample {
	if len(reviews) > count {
		reviews = reviews[:count]
	}
	out := make([]model.ReviewSample, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, model.ReviewSample{
			ID:       r.ID,
			Rating:   r.Rating,
			Title:    r.Title,
			Excerpt:  util.Truncate(r.Body, excerptLen),
			Compound: r.Sentiment.Compound,
		})
	}
	return out
}

// insightRule emits one finding when its condition holds.
type insightRule struct {
	applies func(*model.AnalysisResult) bool
	render  func(*model.AnalysisResult) string
}

var insightRules = []insightRule{
	{
		applies: func(r *model.AnalysisResult) bool {
			return share(r, model.SentimentPositive) >= 0.7
		},
		render: func(r *model.AnalysisResult) string {
			return fmt.Sprintf("Overwhelmingly positive reception: %.0f%% of analyzed reviews are positive.",
				share(r, model.SentimentPositive)*100)
		},
	},
	{
		applies: func(r *model.AnalysisResult) bool {
			return share(r, model.SentimentNegative) >= 0.4
		},
		render: func(r *model.AnalysisResult) string {
			return fmt.Sprintf("High negative share: %.0f%% of analyzed reviews are negative.",
				share(r, model.SentimentNegative)*100)
		},
	},
	{
		applies: func(r *model.AnalysisResult) bool { return r.BotStats.BotPercentage >= 30 },
		render: func(r *model.AnalysisResult) string {
			return fmt.Sprintf("Caution: %.0f%% of reviews show bot-like patterns; genuine sentiment may differ from the average rating.",
				r.BotStats.BotPercentage)
		},
	},
	{
		applies: func(r *model.AnalysisResult) bool {
			return r.AverageRating >= 4 && r.MeanCompound < 0
		},
		render: func(r *model.AnalysisResult) string {
			return "Ratings and review text disagree: high star ratings but negative text sentiment. Check for incentivized reviews."
		},
	},
	{
		applies: func(r *model.AnalysisResult) bool {
			return len(r.Themes) > 0 && r.Themes[0].Sentiment == model.SentimentNegative
		},
		render: func(r *model.AnalysisResult) string {
			return fmt.Sprintf("The most discussed topic, %q, skews negative across %d mentions.",
				r.Themes[0].Label, r.Themes[0].Mentions)
		},
	},
	{
		applies: func(r *model.AnalysisResult) bool {
			dim, val := r.Emotions.Dominant()
			return val >= 0.3 && (dim == "anger" || dim == "sadness" || dim == "disgust")
		},
		render: func(r *model.AnalysisResult) string {
			dim, _ := r.Emotions.Dominant()
			return fmt.Sprintf("Dominant emotional tone is %s; customers describe concrete frustrations rather than mild dissatisfaction.", dim)
		},
	},
	{
		applies: func(r *model.AnalysisResult) bool { return r.Fallback },
		render: func(r *model.AnalysisResult) string {
			return "No live review data was available; this report is based on generated sample data."
		},
	},
	{
		applies: func(r *model.AnalysisResult) bool {
			return r.MeanSubjectivity >= 0.7 && r.AnalyzedReviews >= 5
		},
		render: func(r *model.AnalysisResult) string {
			return "Reviews are highly subjective; opinions dominate over factual product descriptions."
		},
	},
}

// deriveInsights runs every rule in a fixed order. Deterministic for a given
// report body.
func deriveInsights(res *model.AnalysisResult) []string {
	var insights []string
	for _, rule := range insightRules {
		if rule.applies(res) {
			insights = append(insights, rule.render(res))
		}
	}
	if len(insights) == 0 {
		insights = append(insights, fmt.Sprintf("Mixed reception with an average rating of %.1f across %d analyzed reviews.",
			res.AverageRating, res.AnalyzedReviews))
	}
	return insights
}

func share(res *model.AnalysisResult, label string) float64 {
	if res.AnalyzedReviews == 0 {
		return 0
	}
	return float64(res.SentimentDistribution[label]) / float64(res.AnalyzedReviews)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// Digest renders a compact plain-text summary of the report, used as
// context for the optional narrative generator.
func Digest(res *model.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product %s: %d reviews analyzed (of %d fetched), average rating %.1f.\n",
		res.ProductID, res.AnalyzedReviews, res.TotalReviews, res.AverageRating)
	fmt.Fprintf(&b, "Sentiment: %d positive, %d neutral, %d negative (mean compound %.2f).\n",
		res.SentimentDistribution[model.SentimentPositive],
		res.SentimentDistribution[model.SentimentNeutral],
		res.SentimentDistribution[model.SentimentNegative],
		res.MeanCompound)
	if len(res.Themes) > 0 {
		b.WriteString("Themes:")
		for _, th := range res.Themes {
			fmt.Fprintf(&b, " %s(%d,%s)", th.Label, th.Mentions, th.Sentiment)
		}
		b.WriteString("\n")
	}
	if res.BotStats.BotCount > 0 {
		fmt.Fprintf(&b, "Filtered %d suspected bot reviews (%.0f%%).\n",
			res.BotStats.BotCount, res.BotStats.BotPercentage)
	}
	for _, ins := range res.Insights {
		fmt.Fprintf(&b, "- %s\n", ins)
	}
	return b.String()
}
