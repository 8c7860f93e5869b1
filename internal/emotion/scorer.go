// Package emotion scores review text across eight affect dimensions using
// keyword lists, scaled by overall sentiment intensity.
package emotion

import (
	"strings"

	"github.com/ppiankov/reviewlens/internal/model"
	"github.com/ppiankov/reviewlens/internal/sentiment"
)

// keywords per dimension. Raw score is the fraction of a dimension's list
// found in the text, so longer lists do not dominate shorter ones.
var keywords = map[string][]string{
	"joy": {
		"happy", "love", "great", "excellent", "amazing", "wonderful",
		"delighted", "fantastic", "perfect", "awesome", "enjoy", "pleased",
	},
	"trust": {
		"reliable", "quality", "durable", "solid", "trust", "dependable",
		"consistent", "authentic", "genuine", "sturdy",
	},
	"anticipation": {
		"excited", "eager", "looking forward", "expect", "hope", "anticipate",
		"upcoming", "soon",
	},
	"surprise": {
		"surprised", "unexpected", "wow", "astonished", "shocking", "sudden",
		"unbelievable",
	},
	"sadness": {
		"disappointed", "sad", "unhappy", "regret", "unfortunately", "letdown",
		"depressing", "miserable",
	},
	"anger": {
		"angry", "furious", "annoyed", "frustrating", "frustrated", "terrible",
		"horrible", "outrageous", "unacceptable", "ridiculous",
	},
	"fear": {
		"worried", "afraid", "scared", "concern", "concerned", "risky",
		"dangerous", "warning", "caution",
	},
	"disgust": {
		"disgusting", "gross", "awful", "nasty", "cheap", "fake", "scam",
		"misleading", "garbage", "trash",
	},
}

// Sentiment coupling: positive text lifts joy and trust, negative text lifts
// sadness and anger.
const sentimentLift = 0.3

// Score computes the emotion vector for one text. The vector is all zeros
// for empty or matchless neutral text.
func Score(text string) model.EmotionVector {
	if strings.TrimSpace(text) == "" {
		return model.EmotionVector{}
	}

	lower := strings.ToLower(text)
	raw := make(map[string]float64, len(keywords))
	for dim, list := range keywords {
		matches := 0
		for _, kw := range list {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
		raw[dim] = float64(matches) / float64(len(list))
	}

	compound := sentiment.Compound(text)
	if compound > 0 {
		raw["joy"] += compound * sentimentLift
		raw["trust"] += compound * sentimentLift
	} else if compound < 0 {
		raw["sadness"] += -compound * sentimentLift
		raw["anger"] += -compound * sentimentLift
	}

	return model.EmotionVector{
		Joy:          clamp(raw["joy"]),
		Trust:        clamp(raw["trust"]),
		Anticipation: clamp(raw["anticipation"]),
		Surprise:     clamp(raw["surprise"]),
		Sadness:      clamp(raw["sadness"]),
		Anger:        clamp(raw["anger"]),
		Fear:         clamp(raw["fear"]),
		Disgust:      clamp(raw["disgust"]),
	}
}

// ScoreBatch attaches a vector to every review and returns the element-wise
// mean across the batch.
func ScoreBatch(reviews []model.NormalizedReview) ([]model.NormalizedReview, model.EmotionVector) {
	if len(reviews) == 0 {
		return reviews, model.EmotionVector{}
	}

	var sum model.EmotionVector
	for i := range reviews {
		v := Score(reviews[i].Text())
		reviews[i].Emotions = &v
		sum.Joy += v.Joy
		sum.Trust += v.Trust
		sum.Anticipation += v.Anticipation
		sum.Surprise += v.Surprise
		sum.Sadness += v.Sadness
		sum.Anger += v.Anger
		sum.Fear += v.Fear
		sum.Disgust += v.Disgust
	}

	n := float64(len(reviews))
	return reviews, model.EmotionVector{
		Joy:          sum.Joy / n,
		Trust:        sum.Trust / n,
		Anticipation: sum.Anticipation / n,
		Surprise:     sum.Surprise / n,
		Sadness:      sum.Sadness / n,
		Anger:        sum.Anger / n,
		Fear:         sum.Fear / n,
		Disgust:      sum.Disgust / n,
	}
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
