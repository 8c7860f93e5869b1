// Package sentiment scores review text by fusing two independent lexicon
// models: a valence lexicon producing a normalized compound score and a
// pattern lexicon producing polarity and subjectivity. Scoring is
// deterministic and local.
package sentiment

import (
	"math"
	"strings"
)

// valence holds per-word sentiment intensity on a -4..+4 scale.
var valence = map[string]float64{
	// strong positive
	"excellent": 3.2, "amazing": 3.0, "outstanding": 3.1, "fantastic": 3.0,
	"perfect": 3.1, "awesome": 3.0, "wonderful": 2.9, "brilliant": 2.8,
	"superb": 2.9, "exceptional": 2.9, "love": 2.8, "loved": 2.8, "loves": 2.8,
	"best": 2.7, "incredible": 2.8, "flawless": 2.9, "delighted": 2.6,
	// positive
	"great": 2.4, "good": 1.9, "nice": 1.8, "happy": 2.0, "pleased": 1.9,
	"satisfied": 1.8, "solid": 1.5, "reliable": 1.7, "durable": 1.6,
	"comfortable": 1.7, "recommend": 1.9, "recommended": 1.9, "worth": 1.5,
	"impressive": 2.2, "impressed": 2.2, "smooth": 1.5, "fast": 1.3,
	"easy": 1.5, "useful": 1.6, "helpful": 1.7, "quality": 1.3, "sleek": 1.4,
	"beautiful": 2.2, "enjoy": 1.9, "enjoyed": 1.9, "like": 1.5, "liked": 1.5,
	"works": 1.2, "working": 1.0, "fine": 0.8, "decent": 0.9, "okay": 0.5,
	"ok": 0.5, "value": 1.2, "sturdy": 1.5, "crisp": 1.3, "responsive": 1.4,
	// negative
	"bad": -2.0, "poor": -2.1, "disappointing": -2.2, "disappointed": -2.2,
	"slow": -1.3, "cheap": -1.2, "flimsy": -1.8, "uncomfortable": -1.7,
	"annoying": -1.9, "frustrating": -2.1, "frustrated": -2.1,
	"problem": -1.6, "problems": -1.6, "issue": -1.4, "issues": -1.4,
	"broke": -2.2, "broken": -2.3, "defective": -2.5, "faulty": -2.4,
	"damaged": -2.2, "weak": -1.5, "noisy": -1.4, "dull": -1.2,
	"mediocre": -1.3, "overpriced": -1.8, "misleading": -2.2, "fake": -2.4,
	"stopped": -1.5, "return": -1.2, "returned": -1.4, "returning": -1.4,
	"refund": -1.5, "dislike": -1.8, "hate": -2.7, "hated": -2.7,
	// strong negative
	"terrible": -3.0, "horrible": -3.0, "awful": -2.9, "worst": -3.1,
	"useless": -2.6, "garbage": -2.8, "trash": -2.7, "waste": -2.4,
	"scam": -3.0, "avoid": -2.1, "never": -1.0, "disgusting": -2.9,
	"unusable": -2.6, "dangerous": -2.4, "pathetic": -2.6,
}

// boosters scale the valence of the following sentiment word.
var boosters = map[string]float64{
	"very": 0.293, "really": 0.293, "extremely": 0.293, "absolutely": 0.293,
	"incredibly": 0.293, "totally": 0.293, "completely": 0.293, "so": 0.293,
	"super": 0.293, "highly": 0.293,
	"slightly": -0.293, "somewhat": -0.293, "barely": -0.293,
	"kinda": -0.293, "marginally": -0.293, "bit": -0.293,
}

// negations flip the valence of the following sentiment word.
var negations = map[string]bool{
	"not": true, "no": true, "never": true, "neither": true, "nor": true,
	"cannot": true, "cant": true, "wont": true, "dont": true, "doesnt": true,
	"didnt": true, "isnt": true, "wasnt": true, "arent": true, "werent": true,
	"without": true, "hardly": true,
}

const (
	negationDamp    = -0.74
	normalizerAlpha = 15.0
	negationWindow  = 3
)

// Compound scores text on [-1, 1] by summing lexicon valences with negation
// and booster handling, then normalizing the sum.
func Compound(text string) float64 {
	words := splitWords(text)
	if len(words) == 0 {
		return 0
	}

	var sum float64
	for i, w := range words {
		v, ok := valence[w]
		if !ok {
			continue
		}

		// Look back a few words for boosters and negations.
		boost := 0.0
		negated := false
		for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
			prev := words[j]
			if b, ok := boosters[prev]; ok {
				// Boosters further away contribute less.
				scale := 1.0 - float64(i-j-1)*0.05
				boost += b * scale
			}
			if negations[prev] {
				negated = true
			}
		}

		if v > 0 {
			v += boost
		} else {
			v -= boost
		}
		if negated {
			v *= negationDamp
		}
		sum += v
	}

	// Exclamation marks amplify, up to four.
	bangs := strings.Count(text, "!")
	if bangs > 4 {
		bangs = 4
	}
	if bangs > 0 && sum != 0 {
		amp := float64(bangs) * 0.292
		if sum > 0 {
			sum += amp
		} else {
			sum -= amp
		}
	}

	return normalize(sum)
}

// normalize maps an unbounded valence sum onto [-1, 1].
func normalize(score float64) float64 {
	n := score / math.Sqrt(score*score+normalizerAlpha)
	if n > 1 {
		return 1
	}
	if n < -1 {
		return -1
	}
	return n
}

// splitWords lowercases and strips punctuation, keeping intra-word
// apostrophes collapsed ("don't" becomes "dont" to match the negation list).
func splitWords(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '\'':
			// drop
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}
