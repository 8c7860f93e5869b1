// Package botfilter scores reviews for bot and fake-review patterns using
// weighted heuristic indicators. Scoring is deterministic and requires no
// network access.
package botfilter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/reviewlens/internal/model"
	"github.com/ppiankov/reviewlens/internal/util"
)

// Indicator weights. Each fired indicator adds its weight to the score,
// capped at 1.0.
const (
	weightVeryShort         = 0.3
	weightShortFiveStar     = 0.2
	weightSuspiciousPattern = 0.4
	weightTooGeneric        = 0.3
	weightUnverifiedExtreme = 0.2
	weightNoEngagement      = 0.1
	weightSuspiciousAuthor  = 0.3
	weightExcessiveFormat   = 0.2
	weightRepetitive        = 0.3
	weightBulkPosting       = 0.2
)

var spamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(click here|visit my|check out my|discount code|promo code)\b`),
	regexp.MustCompile(`(?i)\b(buy now|limited time|act fast|don't miss)\b`),
	regexp.MustCompile(`https?://`),
	regexp.MustCompile(`(?i)\b(whatsapp|telegram)\b.*\d`),
}

var genericPhrases = []string{
	"good product", "nice product", "great product", "awesome product",
	"value for money", "must buy", "go for it", "worth it",
	"highly recommended", "five stars", "best product",
}

var suspiciousAuthorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^customer\d+$`),
	regexp.MustCompile(`(?i)^user\d+$`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`(?i)^reviewer\d*$`),
	regexp.MustCompile(`^[a-z]{1,2}\d+$`),
	regexp.MustCompile(`(?i)^amazon customer$`),
}

// Filter classifies reviews against a configurable flag threshold.
type Filter struct {
	threshold       float64
	suspiciousFloor float64
}

// New builds a filter from the analysis config.
func New(cfg model.AnalysisConfig) *Filter {
	return &Filter{threshold: cfg.BotThreshold, suspiciousFloor: cfg.SuspiciousFloor}
}

// Score computes the bot likelihood for a single review. The verdict lists
// every indicator that fired.
func (f *Filter) Score(r *model.NormalizedReview) model.BotVerdict {
	var score float64
	var indicators []string

	text := strings.TrimSpace(r.Body)
	textLen := len(text)
	lower := strings.ToLower(text)

	if textLen < 10 {
		score += weightVeryShort
		indicators = append(indicators, "very_short")
	}
	if textLen < 30 && r.HasRating && r.Rating == 5 {
		score += weightShortFiveStar
		indicators = append(indicators, "short_5star")
	}

	for _, p := range spamPatterns {
		if p.MatchString(text) {
			score += weightSuspiciousPattern
			indicators = append(indicators, "suspicious_pattern")
			break
		}
	}

	var genericHits int
	for _, phrase := range genericPhrases {
		if strings.Contains(lower, phrase) {
			genericHits++
		}
	}
	if genericHits >= 3 && textLen < 100 {
		score += weightTooGeneric
		indicators = append(indicators, "too_generic")
	}

	if !r.Verified && r.HasRating && (r.Rating == 1 || r.Rating == 5) {
		score += weightUnverifiedExtreme
		indicators = append(indicators, "unverified_extreme")
	}
	if r.HelpfulCount == 0 && textLen < 50 {
		score += weightNoEngagement
		indicators = append(indicators, "no_engagement")
	}

	author := strings.TrimSpace(r.Author)
	if author != "" {
		for _, p := range suspiciousAuthorPatterns {
			if p.MatchString(author) {
				score += weightSuspiciousAuthor
				indicators = append(indicators, "suspicious_author")
				break
			}
		}
	}

	if textLen > 0 && (isAllCaps(text) || strings.Count(text, "!") > 5) {
		score += weightExcessiveFormat
		indicators = append(indicators, "excessive_formatting")
	}

	if isRepetitive(lower) {
		score += weightRepetitive
		indicators = append(indicators, "repetitive")
	}

	if score > 1.0 {
		score = 1.0
	}

	return model.BotVerdict{
		Score:      score,
		Flagged:    score >= f.threshold,
		Indicators: indicators,
	}
}

// ClassifyBatch scores every review and then applies the cross-review
// bulk-posting check: five or more reviews sharing one posting date and one
// rating look coordinated and each pick up an extra penalty.
func (f *Filter) ClassifyBatch(reviews []model.NormalizedReview) ([]model.NormalizedReview, model.BotStats) {
	type bucket struct{ date, rating string }
	counts := make(map[bucket][]int)

	for i := range reviews {
		v := f.Score(&reviews[i])
		reviews[i].Bot = &v

		if !reviews[i].Date.IsZero() && reviews[i].HasRating {
			b := bucket{
				date:   reviews[i].Date.Format("2006-01-02"),
				rating: strconv.FormatFloat(reviews[i].Rating, 'f', 1, 64),
			}
			counts[b] = append(counts[b], i)
		}
	}

	for _, members := range counts {
		if len(members) < 5 {
			continue
		}
		for _, i := range members {
			v := reviews[i].Bot
			v.Score += weightBulkPosting
			if v.Score > 1.0 {
				v.Score = 1.0
			}
			v.Indicators = append(v.Indicators, "bulk_posting")
			v.Flagged = v.Score >= f.threshold
		}
	}

	return reviews, f.stats(reviews)
}

func (f *Filter) stats(reviews []model.NormalizedReview) model.BotStats {
	stats := model.BotStats{Total: len(reviews)}
	for i := range reviews {
		v := reviews[i].Bot
		switch {
		case v == nil:
			stats.GenuineCount++
		case v.Flagged:
			stats.BotCount++
		case v.Score >= f.suspiciousFloor:
			stats.SuspiciousCount++
			stats.GenuineCount++
		default:
			stats.GenuineCount++
		}
	}
	if stats.Total > 0 {
		stats.BotPercentage = float64(stats.BotCount) / float64(stats.Total) * 100
	}
	return stats
}

func isAllCaps(s string) bool {
	var letters, upper int
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			letters++
			upper++
		case r >= 'a' && r <= 'z':
			letters++
		}
	}
	return letters >= 10 && upper == letters
}

// isRepetitive reports whether a single token accounts for more than 30% of
// the text.
func isRepetitive(lower string) bool {
	words := util.TokenizeAll(lower)
	if len(words) < 5 {
		return false
	}
	freq := make(map[string]int, len(words))
	max := 0
	for _, w := range words {
		freq[w]++
		if freq[w] > max {
			max = freq[w]
		}
	}
	return float64(max)/float64(len(words)) > 0.3
}
