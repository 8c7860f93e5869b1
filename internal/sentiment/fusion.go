package sentiment

import (
	"github.com/ppiankov/reviewlens/internal/model"
)

// Label thresholds on the compound score.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Score runs both models over one text and fuses them into a verdict.
// Empty or matchless text comes back neutral with zero confidence.
func Score(text string) model.SentimentVerdict {
	compound := Compound(text)
	polarity, subjectivity := Polarity(text)

	label := model.SentimentNeutral
	switch {
	case compound >= positiveThreshold:
		label = model.SentimentPositive
	case compound <= negativeThreshold:
		label = model.SentimentNegative
	}

	confidence := (abs(compound) + abs(polarity)) / 2
	if confidence > 1 {
		confidence = 1
	}

	return model.SentimentVerdict{
		Label:        label,
		Compound:     compound,
		Polarity:     polarity,
		Subjectivity: subjectivity,
		Confidence:   confidence,
	}
}

// ScoreBatch attaches a verdict to every review and returns batch
// aggregates. Reviews without text get the neutral zero verdict.
func ScoreBatch(reviews []model.NormalizedReview) ([]model.NormalizedReview, model.SentimentStats) {
	stats := model.SentimentStats{
		Distribution: map[string]int{
			model.SentimentPositive: 0,
			model.SentimentNeutral:  0,
			model.SentimentNegative: 0,
		},
	}

	var compoundSum, subjSum float64
	for i := range reviews {
		v := Score(reviews[i].Text())
		reviews[i].Sentiment = &v
		stats.Distribution[v.Label]++
		compoundSum += v.Compound
		subjSum += v.Subjectivity
	}

	if n := len(reviews); n > 0 {
		stats.MeanCompound = compoundSum / float64(n)
		stats.MeanSubjectivity = subjSum / float64(n)
	}
	return reviews, stats
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
